package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sponsorregistration/internal/domain"
)

type authService struct {
	accountRepo domain.AccountRepository
	hasher      domain.PasswordHasher
	logger      *slog.Logger
}

// NewAuthService creates an AuthService over the account repository and
// password hasher.
func NewAuthService(accountRepo domain.AccountRepository, hasher domain.PasswordHasher, logger *slog.Logger) domain.AuthService {
	return &authService{accountRepo: accountRepo, hasher: hasher, logger: logger}
}

// Login verifies the credential pair. An unknown email and a wrong
// password both return ErrInvalidCredentials so callers cannot tell
// which factor failed.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if err := s.hasher.Compare(account.PasswordHash, account.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

// EnsureAdmin seeds the admin account at bootstrap when it does not
// already exist. Existing accounts are left untouched.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.accountRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		// A concurrent bootstrap may have won the race; that is fine.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	s.logger.Info("seeded admin account", "email", email)
	return nil
}
