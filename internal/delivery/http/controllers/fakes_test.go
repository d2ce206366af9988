package controllers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	h "sponsorregistration/internal/delivery/http/helpers"
	"sponsorregistration/internal/domain"
	"sponsorregistration/internal/services"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger so tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func testRenderer(t *testing.T) *h.Renderer {
	t.Helper()
	renderer, err := h.NewRenderer(testLogger)
	require.NoError(t, err)
	return renderer
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	registerErr    error
	registerResult *domain.SponsorRegistration
	lastInput      domain.RegistrationInput

	getByIDErr    error
	getByIDResult *domain.SponsorRegistration
	lastGetID     string

	listErr    error
	listResult []*domain.SponsorRegistration

	resetErr    error
	resetCalled bool

	seedErr    error
	seedCalled bool
}

func (f *fakeRegistrationService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.SponsorRegistration, error) {
	f.lastInput = input
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerResult, nil
}

func (f *fakeRegistrationService) GetByID(ctx context.Context, id string) (*domain.SponsorRegistration, error) {
	f.lastGetID = id
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDResult, nil
}

func (f *fakeRegistrationService) List(ctx context.Context) ([]*domain.SponsorRegistration, error) {
	return f.listResult, f.listErr
}

func (f *fakeRegistrationService) Reset(ctx context.Context) error {
	f.resetCalled = true
	return f.resetErr
}

func (f *fakeRegistrationService) SeedTestData(ctx context.Context) error {
	f.seedCalled = true
	return f.seedErr
}

// fakeAvailabilityService implements domain.AvailabilityService.
type fakeAvailabilityService struct {
	checkAllErr    error
	checkAllResult []domain.Availability
}

func (f *fakeAvailabilityService) Check(ctx context.Context, tier string) (domain.Availability, error) {
	for _, a := range f.checkAllResult {
		if a.Tier == tier {
			return a, f.checkAllErr
		}
	}
	return domain.Availability{}, domain.ErrUnknownTier
}

func (f *fakeAvailabilityService) CheckAll(ctx context.Context) ([]domain.Availability, error) {
	if f.checkAllErr != nil {
		return nil, f.checkAllErr
	}
	return f.checkAllResult, nil
}

// openAvailability returns every tier available, black friday capped at 10.
func openAvailability() []domain.Availability {
	avail := make([]domain.Availability, 0, len(domain.Tiers))
	for _, tier := range domain.Tiers {
		a := domain.Availability{Tier: tier, Available: true}
		if tier == domain.TierBlackFriday {
			a.Capped = true
			a.Remaining = domain.BlackFridayCapacity
		}
		avail = append(avail, a)
	}
	return avail
}

// fakeReportService implements services.ReportService.
type fakeReportService struct {
	summaryErr    error
	summaryResult *services.Summary
	csvErr        error
	csvContent    string
}

func (f *fakeReportService) Summary(ctx context.Context) (*services.Summary, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summaryResult, nil
}

func (f *fakeReportService) WriteCSV(ctx context.Context, w io.Writer) error {
	if f.csvErr != nil {
		return f.csvErr
	}
	_, err := io.WriteString(w, f.csvContent)
	return err
}

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	loginErr     error
	loginResult  *domain.Account
	lastEmail    string
	lastPassword string
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	f.lastEmail = email
	f.lastPassword = password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	return nil
}

// fakeSessionCodec implements domain.SessionCodec.
type fakeSessionCodec struct {
	issueErr   error
	issueToken string
}

func (f *fakeSessionCodec) Issue(accountID string, isAdmin bool, expiry time.Duration) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return f.issueToken, nil
}

func (f *fakeSessionCodec) Verify(token string) (string, error) {
	return "", domain.ErrInvalidCredentials
}

func sampleRegistration() *domain.SponsorRegistration {
	created := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	return &domain.SponsorRegistration{
		ID:               "reg-1",
		CompanyName:      "Island Breeze Resorts",
		CompanyAddress:   "1 Bay St, Nassau",
		CompanyEmail:     "sponsor@islandbreeze.example",
		CompanyPhone:     "242-555-0101",
		ContactName:      "Renee Smith",
		ContactEmail:     "renee@islandbreeze.example",
		ContactPhone:     "242-555-0102",
		PackageTier:      domain.TierBlackFriday,
		IsBlackFriday:    true,
		TicketsAllocated: domain.BlackFridayTickets,
		CreatedAt:        created,
	}
}
