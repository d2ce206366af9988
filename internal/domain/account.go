package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for account and authentication operations.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account is an application login identity. Accounts are created at
// bootstrap (the seeded admin) and are never deleted by the application.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// SessionCodec issues and verifies signed session tokens carried in the
// session cookie. Verify returns the account ID the token was issued for.
type SessionCodec interface {
	Issue(accountID string, isAdmin bool, expiry time.Duration) (string, error)
	Verify(token string) (accountID string, err error)
}

// AccountRepository defines the interface for account storage.
type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash, salt string) error
}

// AuthService defines the business logic for credential authentication.
type AuthService interface {
	// Login verifies the credential pair. Unknown emails and wrong
	// passwords both yield ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*Account, error)
	// EnsureAdmin creates the seeded admin account when it does not exist.
	EnsureAdmin(ctx context.Context, email, password string) error
}
