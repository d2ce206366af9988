package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsorregistration/internal/domain"
)

func validInput(tier string) domain.RegistrationInput {
	return domain.RegistrationInput{
		CompanyName:    "Acme Ltd",
		CompanyAddress: "1 Bay St, Nassau",
		CompanyEmail:   "Sponsor@Acme.example",
		CompanyPhone:   "242-555-0100",
		ContactName:    "Jo Rolle",
		ContactEmail:   "jo@acme.example",
		ContactPhone:   "242-555-0101",
		PackageTier:    tier,
	}
}

func newTestRegistrationService(repo *fakeRegistrationRepo, photos *fakePhotoStore, emails *fakeEmailService) domain.RegistrationService {
	var emailSvc domain.EmailService
	if emails != nil {
		emailSvc = emails
	}
	return NewRegistrationService(repo, NewAvailabilityService(repo), photos, emailSvc, testLogger())
}

func TestRegister_DerivesTierFields(t *testing.T) {
	tests := []struct {
		tier            string
		wantTickets     int
		wantBlackFriday bool
	}{
		{domain.TierOneMile, 0, false},
		{domain.TierHalfMile, 0, false},
		{domain.TierQuarterMile, 0, false},
		{domain.TierBlackFriday, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			repo := &fakeRegistrationRepo{}
			svc := newTestRegistrationService(repo, newFakePhotoStore(), nil)

			reg, err := svc.Register(context.Background(), validInput(tt.tier))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTickets, reg.TicketsAllocated)
			assert.Equal(t, tt.wantBlackFriday, reg.IsBlackFriday)
			assert.Equal(t, "sponsor@acme.example", reg.CompanyEmail)
			assert.False(t, reg.CreatedAt.IsZero())
		})
	}
}

func TestRegister_DuplicateEmailLeavesRowCountUnchanged(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := newTestRegistrationService(repo, newFakePhotoStore(), nil)

	_, err := svc.Register(context.Background(), validInput(domain.TierOneMile))
	require.NoError(t, err)
	before := repo.count()

	_, err = svc.Register(context.Background(), validInput(domain.TierHalfMile))
	require.ErrorIs(t, err, domain.ErrDuplicateRegistration)
	assert.Equal(t, before, repo.count())
}

func TestRegister_BlackFridayFullIsRejected(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	repo.seedTier(domain.TierBlackFriday, 10)
	svc := newTestRegistrationService(repo, newFakePhotoStore(), nil)

	_, err := svc.Register(context.Background(), validInput(domain.TierBlackFriday))
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Equal(t, 10, repo.count())
}

func TestRegister_PhotoValidation(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		wantErr    error
		wantSuffix string
	}{
		{name: "exe rejected", filename: "x.exe", wantErr: domain.ErrUnsupportedFileType},
		{name: "no extension rejected", filename: "photo", wantErr: domain.ErrUnsupportedFileType},
		{name: "mixed case accepted and normalized", filename: "x.PNG", wantSuffix: "_x.png"},
		{name: "jpeg accepted", filename: "head shot.JPEG", wantSuffix: "_headshot.jpeg"},
		{name: "path traversal stripped", filename: "../../etc/passwd.gif", wantSuffix: "_passwd.gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRegistrationRepo{}
			photos := newFakePhotoStore()
			svc := newTestRegistrationService(repo, photos, nil)

			input := validInput(domain.TierOneMile)
			input.Photo = &domain.PhotoUpload{Filename: tt.filename, Content: strings.NewReader("bytes")}

			reg, err := svc.Register(context.Background(), input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, repo.count())
				assert.Empty(t, photos.saved)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(reg.ContactPhoto, tt.wantSuffix), "got key %q", reg.ContactPhoto)
			assert.Contains(t, photos.saved, reg.ContactPhoto)
		})
	}
}

func TestRegister_PaymentDateParsing(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := newTestRegistrationService(repo, newFakePhotoStore(), nil)

	input := validInput(domain.TierOneMile)
	input.PaymentDate = "2025-13-01"
	_, err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrInvalidDateFormat)
	assert.Equal(t, 0, repo.count())

	input = validInput(domain.TierOneMile)
	input.PaymentDate = "2025-03-15"
	reg, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, reg.PaymentDate)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), *reg.PaymentDate)
}

func TestRegister_SendsConfirmationEmail(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	emails := newFakeEmailService()
	svc := newTestRegistrationService(repo, newFakePhotoStore(), emails)

	_, err := svc.Register(context.Background(), validInput(domain.TierBlackFriday))
	require.NoError(t, err)

	select {
	case <-emails.done:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email was never attempted")
	}
	require.Equal(t, 1, emails.sentCount())
	assert.Equal(t, "sponsor@acme.example", emails.sent[0].CompanyEmail)
	assert.Equal(t, 5, emails.sent[0].Tickets)
}

func TestRegister_EmailFailureDoesNotFailRegistration(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	emails := newFakeEmailService()
	emails.sendErr = assert.AnError
	svc := newTestRegistrationService(repo, newFakePhotoStore(), emails)

	reg, err := svc.Register(context.Background(), validInput(domain.TierOneMile))
	require.NoError(t, err)
	require.NotEmpty(t, reg.ID)

	select {
	case <-emails.done:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email was never attempted")
	}
	assert.Equal(t, 1, repo.count())
}

func TestRegister_MissingFieldsRejected(t *testing.T) {
	svc := newTestRegistrationService(&fakeRegistrationRepo{}, newFakePhotoStore(), nil)

	input := validInput(domain.TierOneMile)
	input.ContactPhone = "  "
	_, err := svc.Register(context.Background(), input)
	require.Error(t, err)

	input = validInput(domain.TierOneMile)
	input.CompanyEmail = "not-an-email"
	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)

	input = validInput("gold")
	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrUnknownTier)
}

func TestRegister_PersistenceErrorCleansUpPhoto(t *testing.T) {
	repo := &fakeRegistrationRepo{createErr: assert.AnError}
	photos := newFakePhotoStore()
	svc := newTestRegistrationService(repo, photos, nil)

	input := validInput(domain.TierOneMile)
	input.Photo = &domain.PhotoUpload{Filename: "logo.png", Content: strings.NewReader("bytes")}
	_, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Empty(t, photos.saved)
}

func TestReset_DeletesEverything(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	repo.seedTier(domain.TierOneMile, 3)
	repo.seedTier(domain.TierBlackFriday, 2)
	svc := newTestRegistrationService(repo, newFakePhotoStore(), nil)

	require.NoError(t, svc.Reset(context.Background()))
	assert.Equal(t, 0, repo.count())
}

func TestSeedTestData_InsertsTwoRegistrations(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := newTestRegistrationService(repo, newFakePhotoStore(), nil)

	require.NoError(t, svc.SeedTestData(context.Background()))
	assert.Equal(t, 2, repo.count())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"photo.png", "photo.png"},
		{"../../../etc/passwd", "passwd"},
		{`..\..\win\evil.gif`, "evil.gif"},
		{"my photo (1).jpg", "myphoto1.jpg"},
		{"résumé.png", "rsum.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
