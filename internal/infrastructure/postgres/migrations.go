package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema son sentencias idempotentes; se aplican en orden en cada arranque.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('admin', 'deo', 'vo')),
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT uq_users_email UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS vo_details (
		user_id     UUID PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
		designation TEXT NOT NULL DEFAULT '',
		office      TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS contractors (
		id                   UUID PRIMARY KEY,
		nic_number           TEXT NOT NULL,
		full_name            TEXT NOT NULL,
		contact_number       TEXT NOT NULL DEFAULT '',
		address              TEXT NOT NULL DEFAULT '',
		agreement_number     TEXT NOT NULL DEFAULT '',
		agreement_start_date DATE,
		agreement_end_date   DATE,
		active               BOOLEAN NOT NULL DEFAULT FALSE,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT uq_contractors_nic UNIQUE (nic_number)
	)`,
	// Como mucho una fila con active = true.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contractors_single_active ON contractors ((true)) WHERE active`,
	`CREATE INDEX IF NOT EXISTS idx_contractors_created_at ON contractors (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS supporters (
		id             UUID PRIMARY KEY,
		contractor_id  UUID NOT NULL REFERENCES contractors (id),
		nic_number     TEXT NOT NULL,
		name           TEXT NOT NULL,
		contact_number TEXT NOT NULL DEFAULT '',
		address        TEXT NOT NULL DEFAULT '',
		active         BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT uq_supporters_nic UNIQUE (nic_number),
		CONSTRAINT uq_supporters_contractor UNIQUE (contractor_id)
	)`,
	`CREATE TABLE IF NOT EXISTS vouchers (
		id         UUID PRIMARY KEY,
		deo_id     UUID NOT NULL REFERENCES users (id),
		vo_id      UUID NOT NULL REFERENCES users (id),
		status     TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		comment    TEXT,
		url_data   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vouchers_deo_created ON vouchers (deo_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_vouchers_vo_created ON vouchers (vo_id, created_at DESC)`,
}

// Migrate aplica el esquema. Es seguro llamarlo en cada arranque.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migración %d: %w", i+1, err)
		}
	}
	return nil
}
