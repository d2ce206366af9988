package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"sponsorregistration/internal/domain"
)

// capacityLockKey serializes capped-tier inserts. Concurrent black_friday
// registrations take this advisory lock for the duration of their
// transaction, so the count-and-insert below cannot interleave.
const capacityLockKey = "sponsor_registrations:black_friday"

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.SponsorRegistration) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if reg.PackageTier == domain.TierBlackFriday {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, capacityLockKey); err != nil {
			return fmt.Errorf("failed to take capacity lock: %w", err)
		}
		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sponsor_registrations WHERE package_tier = $1`,
			domain.TierBlackFriday,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if count >= domain.BlackFridayCapacity {
			return domain.ErrCapacityExceeded
		}
	}

	query := `
		INSERT INTO sponsor_registrations
			(company_name, company_address, company_email, company_phone,
			 contact_name, contact_email, contact_phone, contact_photo,
			 package_tier, is_black_friday, tickets_allocated, payment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		reg.CompanyName, reg.CompanyAddress, reg.CompanyEmail, reg.CompanyPhone,
		reg.ContactName, reg.ContactEmail, reg.ContactPhone, nullString(reg.ContactPhoto),
		reg.PackageTier, reg.IsBlackFriday, reg.TicketsAllocated, nullTime(reg.PaymentDate), reg.CreatedAt,
	).Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateRegistration
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

const registrationColumns = `
	id, company_name, company_address, company_email, company_phone,
	contact_name, contact_email, contact_phone, contact_photo,
	package_tier, is_black_friday, tickets_allocated, payment_date, created_at`

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.SponsorRegistration, error) {
	query := `SELECT` + registrationColumns + `
		FROM sponsor_registrations
		WHERE id = $1
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

// isInvalidUUID reports whether err is Postgres 22P02, raised when a
// malformed id literal reaches a uuid column. Lookups by a caller-supplied
// id treat it the same as no row.
func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

func (r *registrationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sponsor_registrations WHERE company_email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *registrationRepository) List(ctx context.Context) ([]*domain.SponsorRegistration, error) {
	query := `SELECT` + registrationColumns + `
		FROM sponsor_registrations
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var regs []*domain.SponsorRegistration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) CountByTier(ctx context.Context, tier string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sponsor_registrations WHERE package_tier = $1`,
		tier,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrationRepository) CountsByTier(ctx context.Context) (domain.TierCounts, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT package_tier, COUNT(*) FROM sponsor_registrations GROUP BY package_tier`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(domain.TierCounts)
	for rows.Next() {
		var tier string
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, err
		}
		counts[tier] = count
	}
	return counts, rows.Err()
}

func (r *registrationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sponsor_registrations`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*domain.SponsorRegistration, error) {
	reg := &domain.SponsorRegistration{}
	var photo sql.NullString
	var paymentDate sql.NullTime
	err := row.Scan(
		&reg.ID, &reg.CompanyName, &reg.CompanyAddress, &reg.CompanyEmail, &reg.CompanyPhone,
		&reg.ContactName, &reg.ContactEmail, &reg.ContactPhone, &photo,
		&reg.PackageTier, &reg.IsBlackFriday, &reg.TicketsAllocated, &paymentDate, &reg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if photo.Valid {
		reg.ContactPhoto = photo.String
	}
	if paymentDate.Valid {
		t := paymentDate.Time
		reg.PaymentDate = &t
	}
	return reg, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
