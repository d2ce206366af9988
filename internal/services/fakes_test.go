package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"sponsorregistration/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeRegistrationRepo implements domain.RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	mu        sync.Mutex
	regs      []*domain.SponsorRegistration
	createErr error
	countErr  error
	listErr   error
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, r *domain.SponsorRegistration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.regs {
		if existing.CompanyEmail == r.CompanyEmail {
			return domain.ErrDuplicateRegistration
		}
	}
	if r.PackageTier == domain.TierBlackFriday {
		count := 0
		for _, existing := range f.regs {
			if existing.PackageTier == domain.TierBlackFriday {
				count++
			}
		}
		if count >= domain.BlackFridayCapacity {
			return domain.ErrCapacityExceeded
		}
	}
	r.ID = "reg-" + r.CompanyEmail
	f.regs = append(f.regs, r)
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.SponsorRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.CompanyEmail == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) List(ctx context.Context) ([]*domain.SponsorRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.SponsorRegistration, len(f.regs))
	copy(out, f.regs)
	return out, nil
}

func (f *fakeRegistrationRepo) CountByTier(ctx context.Context, tier string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, r := range f.regs {
		if r.PackageTier == tier {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegistrationRepo) CountsByTier(ctx context.Context) (domain.TierCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return nil, f.countErr
	}
	counts := make(domain.TierCounts)
	for _, r := range f.regs {
		counts[r.PackageTier]++
	}
	return counts, nil
}

func (f *fakeRegistrationRepo) DeleteAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs = nil
	return nil
}

func (f *fakeRegistrationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.regs)
}

// seedTier inserts n synthetic registrations with the given tier.
func (f *fakeRegistrationRepo) seedTier(tier string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		f.regs = append(f.regs, &domain.SponsorRegistration{
			ID:           "seed",
			CompanyEmail: tier + string(rune('a'+i)) + "@seed.test",
			PackageTier:  tier,
		})
	}
}

// fakeAccountRepo implements domain.AccountRepository for tests.
type fakeAccountRepo struct {
	byEmail map[string]*domain.Account
	getErr  error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: make(map[string]*domain.Account)}
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	if _, ok := f.byEmail[a.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	a.ID = "acct-" + a.Email
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountRepo) UpdatePassword(ctx context.Context, id, passwordHash, salt string) error {
	for _, a := range f.byEmail {
		if a.ID == id {
			a.PasswordHash = passwordHash
			a.Salt = salt
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

// fakeHasher implements domain.PasswordHasher with reversible fake hashes.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeEmailService implements domain.EmailService and records sends.
type fakeEmailService struct {
	mu      sync.Mutex
	sent    []*domain.RegistrationEmailData
	sendErr error
	done    chan struct{}
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{done: make(chan struct{}, 8)}
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.mu.Lock()
	f.sent = append(f.sent, data)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.sendErr
}

func (f *fakeEmailService) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakePhotoStore implements domain.PhotoStore in memory.
type fakePhotoStore struct {
	saved   map[string][]byte
	saveErr error
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{saved: make(map[string][]byte)}
}

func (f *fakePhotoStore) Save(key string, content io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return err
	}
	f.saved[key] = buf.Bytes()
	return nil
}

func (f *fakePhotoStore) Remove(key string) error {
	delete(f.saved, key)
	return nil
}

// fakeMailer implements domain.Mailer and records the last send.
type fakeMailer struct {
	to, subject, html, text string
	ctx                     context.Context
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.ctx = ctx
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}
