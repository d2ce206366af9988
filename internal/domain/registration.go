package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for registration operations.
var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("a registration with this company email already exists")
	ErrCapacityExceeded      = errors.New("the selected package is sold out")
	ErrUnsupportedFileType   = errors.New("unsupported photo file type")
	ErrInvalidDateFormat     = errors.New("payment date must be in YYYY-MM-DD format")
	ErrUnknownTier           = errors.New("unknown package tier")
)

// Package tier codes as stored in the database.
const (
	TierOneMile     = "1mile"
	TierHalfMile    = "halfmile"
	TierQuarterMile = "quartermile"
	TierBlackFriday = "black_friday"
)

// BlackFridayCapacity is the hard cap on black_friday registrations.
const BlackFridayCapacity = 10

// BlackFridayTickets is the fixed event ticket allocation for the
// black_friday tier; every other tier allocates zero.
const BlackFridayTickets = 5

// Tiers lists every valid tier code in display order.
var Tiers = []string{TierOneMile, TierHalfMile, TierQuarterMile, TierBlackFriday}

// ValidTier reports whether code is one of the four package tiers.
func ValidTier(code string) bool {
	switch code {
	case TierOneMile, TierHalfMile, TierQuarterMile, TierBlackFriday:
		return true
	}
	return false
}

// TierLabel returns the human-readable package name for a tier code.
func TierLabel(code string) string {
	switch code {
	case TierOneMile:
		return "1 Mile Package"
	case TierHalfMile:
		return "½ Mile Package"
	case TierQuarterMile:
		return "¼ Mile Package"
	case TierBlackFriday:
		return "Black Friday Special (50% off)"
	}
	return code
}

// TierMiles returns the mile weighting a tier contributes to the
// dashboard "total miles" figure. Black Friday sponsors count as a full
// mile-equivalent; that weighting is intentional.
func TierMiles(code string) float64 {
	switch code {
	case TierOneMile, TierBlackFriday:
		return 1.0
	case TierHalfMile:
		return 0.5
	case TierQuarterMile:
		return 0.25
	}
	return 0
}

// TierTickets returns the event ticket allocation derived from a tier.
func TierTickets(code string) int {
	if code == TierBlackFriday {
		return BlackFridayTickets
	}
	return 0
}

// SponsorRegistration is one company's sponsorship registration. Rows are
// created by the registration workflow, never updated, and deleted only
// by the administrative bulk reset.
type SponsorRegistration struct {
	ID             string `json:"id"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyEmail   string `json:"company_email"`
	CompanyPhone   string `json:"company_phone"`

	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	// ContactPhoto is a relative storage key under the uploads dir, or empty.
	ContactPhoto string `json:"contact_photo,omitempty"`

	PackageTier      string     `json:"package_tier"`
	IsBlackFriday    bool       `json:"is_black_friday"`
	TicketsAllocated int        `json:"tickets_allocated"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// PaymentStatus returns "Paid" when the payment date is set and not in
// the future relative to now, otherwise "Pending".
func (r *SponsorRegistration) PaymentStatus(now time.Time) string {
	if r.PaymentDate != nil && !r.PaymentDate.After(now) {
		return "Paid"
	}
	return "Pending"
}

// Availability describes whether a tier may accept a new registration.
// Remaining is only meaningful when Capped is true.
type Availability struct {
	Tier      string `json:"tier"`
	Available bool   `json:"available"`
	Capped    bool   `json:"capped"`
	Remaining int    `json:"remaining,omitempty"`
}

// TierCounts maps tier code to number of registrations holding it.
type TierCounts map[string]int

// RegistrationRepository defines the interface for registration storage.
type RegistrationRepository interface {
	// Create inserts a registration. The capacity cap for capped tiers is
	// re-validated inside the insert transaction; a full tier yields
	// ErrCapacityExceeded and a duplicate company email yields
	// ErrDuplicateRegistration, with no row written in either case.
	Create(ctx context.Context, r *SponsorRegistration) error
	GetByID(ctx context.Context, id string) (*SponsorRegistration, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*SponsorRegistration, error)
	CountByTier(ctx context.Context, tier string) (int, error)
	CountsByTier(ctx context.Context) (TierCounts, error)
	// DeleteAll removes every registration unconditionally.
	DeleteAll(ctx context.Context) error
}

// AvailabilityService answers whether a tier currently has open capacity.
// Pure read over persisted state; it never writes.
type AvailabilityService interface {
	Check(ctx context.Context, tier string) (Availability, error)
	CheckAll(ctx context.Context) ([]Availability, error)
}

// RegistrationInput is the validated form payload for a new registration.
type RegistrationInput struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	PackageTier    string
	// PaymentDate is the raw YYYY-MM-DD form value, or empty.
	PaymentDate string
	Photo       *PhotoUpload
}

// RegistrationService defines the registration workflow and the admin
// read/reset operations over registrations.
type RegistrationService interface {
	Register(ctx context.Context, input RegistrationInput) (*SponsorRegistration, error)
	GetByID(ctx context.Context, id string) (*SponsorRegistration, error)
	List(ctx context.Context) ([]*SponsorRegistration, error)
	// Reset deletes all registrations. Irreversible; never touches accounts.
	Reset(ctx context.Context) error
	// SeedTestData inserts two synthetic registrations. Debug-only; the
	// caller gates it on the debug flag.
	SeedTestData(ctx context.Context) error
}
