package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sponsor_registrations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		company_name TEXT NOT NULL,
		company_address TEXT NOT NULL,
		company_email TEXT NOT NULL UNIQUE,
		company_phone TEXT NOT NULL,
		contact_name TEXT NOT NULL,
		contact_email TEXT NOT NULL,
		contact_phone TEXT NOT NULL,
		contact_photo TEXT,
		package_tier TEXT NOT NULL,
		is_black_friday BOOLEAN NOT NULL DEFAULT FALSE,
		tickets_allocated INTEGER NOT NULL DEFAULT 0,
		payment_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sponsor_registrations_tier
		ON sponsor_registrations (package_tier)`,
}

// EnsureSchema creates the tables and indexes the application needs.
// Statements are idempotent so it is safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
