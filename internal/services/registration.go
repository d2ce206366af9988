package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"sponsorregistration/internal/domain"
	"sponsorregistration/internal/metrics"
)

const (
	paymentDateLayout = "2006-01-02"
	notifyTimeout     = 10 * time.Second
)

var (
	emailRegexp      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	unsafeFileChars  = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	allowedPhotoExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}
)

type registrationService struct {
	regRepo      domain.RegistrationRepository
	availability domain.AvailabilityService
	photoStore   domain.PhotoStore
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewRegistrationService creates the registration workflow service.
// emailService may be nil, in which case no confirmation email is sent.
func NewRegistrationService(
	regRepo domain.RegistrationRepository,
	availability domain.AvailabilityService,
	photoStore domain.PhotoStore,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		regRepo:      regRepo,
		availability: availability,
		photoStore:   photoStore,
		emailService: emailService,
		logger:       logger,
	}
}

// Register runs the registration workflow. Checks run in order and
// short-circuit: input shape, duplicate email, tier availability, photo
// type, payment date. Only then is the photo stored and the row inserted;
// the repository re-validates the capacity cap inside its transaction.
// The confirmation email is sent after the commit and is best-effort.
func (s *registrationService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.SponsorRegistration, error) {
	input.CompanyEmail = strings.TrimSpace(strings.ToLower(input.CompanyEmail))
	input.ContactEmail = strings.TrimSpace(strings.ToLower(input.ContactEmail))
	if err := validateInput(input); err != nil {
		metrics.RecordRegistration(input.PackageTier, "rejected")
		return nil, err
	}

	exists, err := s.regRepo.ExistsByEmail(ctx, input.CompanyEmail)
	if err != nil {
		metrics.RecordRegistration(input.PackageTier, "error")
		return nil, fmt.Errorf("failed to check for existing registration: %w", err)
	}
	if exists {
		metrics.RecordRegistration(input.PackageTier, "rejected")
		return nil, domain.ErrDuplicateRegistration
	}

	avail, err := s.availability.Check(ctx, input.PackageTier)
	if err != nil {
		metrics.RecordRegistration(input.PackageTier, "error")
		return nil, err
	}
	if !avail.Available {
		metrics.RecordRegistration(input.PackageTier, "rejected")
		return nil, domain.ErrCapacityExceeded
	}

	var photoKey string
	if input.Photo != nil {
		photoKey, err = photoStorageKey(input.Photo.Filename)
		if err != nil {
			metrics.RecordRegistration(input.PackageTier, "rejected")
			return nil, err
		}
	}

	var paymentDate *time.Time
	if input.PaymentDate != "" {
		parsed, err := time.Parse(paymentDateLayout, input.PaymentDate)
		if err != nil {
			metrics.RecordRegistration(input.PackageTier, "rejected")
			return nil, domain.ErrInvalidDateFormat
		}
		paymentDate = &parsed
	}

	// The photo write and the insert are not transactionally linked; a
	// failed insert leaves the stored photo behind, which we clean up on
	// the error path below.
	if photoKey != "" {
		if err := s.photoStore.Save(photoKey, input.Photo.Content); err != nil {
			metrics.RecordRegistration(input.PackageTier, "error")
			return nil, fmt.Errorf("failed to store contact photo: %w", err)
		}
	}

	reg := &domain.SponsorRegistration{
		CompanyName:      strings.TrimSpace(input.CompanyName),
		CompanyAddress:   strings.TrimSpace(input.CompanyAddress),
		CompanyEmail:     input.CompanyEmail,
		CompanyPhone:     strings.TrimSpace(input.CompanyPhone),
		ContactName:      strings.TrimSpace(input.ContactName),
		ContactEmail:     input.ContactEmail,
		ContactPhone:     strings.TrimSpace(input.ContactPhone),
		ContactPhoto:     photoKey,
		PackageTier:      input.PackageTier,
		IsBlackFriday:    input.PackageTier == domain.TierBlackFriday,
		TicketsAllocated: domain.TierTickets(input.PackageTier),
		PaymentDate:      paymentDate,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		if photoKey != "" {
			if rmErr := s.photoStore.Remove(photoKey); rmErr != nil {
				s.logger.Warn("failed to remove orphaned photo", "key", photoKey, "err", rmErr)
			}
		}
		if errors.Is(err, domain.ErrDuplicateRegistration) || errors.Is(err, domain.ErrCapacityExceeded) {
			metrics.RecordRegistration(input.PackageTier, "rejected")
			return nil, err
		}
		metrics.RecordRegistration(input.PackageTier, "error")
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	metrics.RecordRegistration(input.PackageTier, "created")

	s.notify(reg)
	return reg, nil
}

// notify sends the confirmation email without blocking the caller.
// Failures are logged and swallowed; registration success never depends
// on the notification outcome.
func (s *registrationService) notify(reg *domain.SponsorRegistration) {
	if s.emailService == nil {
		return
	}
	data := &domain.RegistrationEmailData{
		CompanyName:  reg.CompanyName,
		CompanyEmail: reg.CompanyEmail,
		ContactName:  reg.ContactName,
		PackageLabel: domain.TierLabel(reg.PackageTier),
		Tickets:      reg.TicketsAllocated,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
			metrics.NotificationFailures.Inc()
			s.logger.Error("confirmation email failed", "company_email", data.CompanyEmail, "err", err)
		}
	}()
}

func (s *registrationService) GetByID(ctx context.Context, id string) (*domain.SponsorRegistration, error) {
	return s.regRepo.GetByID(ctx, id)
}

func (s *registrationService) List(ctx context.Context) ([]*domain.SponsorRegistration, error) {
	return s.regRepo.List(ctx)
}

func (s *registrationService) Reset(ctx context.Context) error {
	if err := s.regRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset registrations: %w", err)
	}
	s.logger.Info("all registrations deleted")
	return nil
}

func (s *registrationService) SeedTestData(ctx context.Context) error {
	now := time.Now().UTC()
	seeds := []*domain.SponsorRegistration{
		{
			CompanyName:      "Island Breeze Resorts",
			CompanyAddress:   "12 Cable Beach Blvd, Nassau",
			CompanyEmail:     "sponsorship@islandbreeze.test",
			CompanyPhone:     "242-555-0133",
			ContactName:      "Dana Ferguson",
			ContactEmail:     "dana@islandbreeze.test",
			ContactPhone:     "242-555-0134",
			PackageTier:      domain.TierOneMile,
			TicketsAllocated: domain.TierTickets(domain.TierOneMile),
			CreatedAt:        now,
		},
		{
			CompanyName:      "Paradise Motors",
			CompanyAddress:   "88 Shirley St, Nassau",
			CompanyEmail:     "events@paradisemotors.test",
			CompanyPhone:     "242-555-0177",
			ContactName:      "Marcus Bethel",
			ContactEmail:     "marcus@paradisemotors.test",
			ContactPhone:     "242-555-0178",
			PackageTier:      domain.TierBlackFriday,
			IsBlackFriday:    true,
			TicketsAllocated: domain.TierTickets(domain.TierBlackFriday),
			CreatedAt:        now,
		},
	}
	for _, reg := range seeds {
		if err := s.regRepo.Create(ctx, reg); err != nil {
			return fmt.Errorf("failed to seed registration for %s: %w", reg.CompanyName, err)
		}
	}
	return nil
}

func validateInput(input domain.RegistrationInput) error {
	if !domain.ValidTier(input.PackageTier) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownTier, input.PackageTier)
	}
	required := []string{
		input.CompanyName, input.CompanyAddress, input.CompanyEmail, input.CompanyPhone,
		input.ContactName, input.ContactEmail, input.ContactPhone,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("all company and contact fields are required")
		}
	}
	if !emailRegexp.MatchString(input.CompanyEmail) {
		return fmt.Errorf("invalid company email format")
	}
	if !emailRegexp.MatchString(input.ContactEmail) {
		return fmt.Errorf("invalid contact email format")
	}
	return nil
}

// photoStorageKey validates the photo extension and turns the untrusted
// client filename into a safe, unique storage key.
func photoStorageKey(filename string) (string, error) {
	name := sanitizeFilename(filename)
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedPhotoExts[ext] {
		return "", domain.ErrUnsupportedFileType
	}
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	return uuid.NewString() + "_" + name, nil
}

// sanitizeFilename strips path components and characters with filesystem
// meaning from a client-supplied filename.
func sanitizeFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = unsafeFileChars.ReplaceAllString(name, "")
	name = strings.Trim(name, ".")
	return name
}
