// Package pgstore implements the store contracts on PostgreSQL.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Driver is the store_driver value selecting this backend, and the
// database/sql driver name registered by lib/pq.
const Driver = "postgres"

const uniqueViolation = "23505"

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open(Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewSet returns every store backed by db.
func NewSet(db *sql.DB) store.Set {
	return store.Set{
		Tenants: NewTenants(db),
		Domains: NewDomains(db),
		Members: NewMembers(db),
		Users:   NewUsers(db),
		Logins:  NewLogins(db),
		Resets:  NewResets(db),
		Ping:    db.PingContext,
		Driver:  Driver,
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		name_ci    TEXT NOT NULL,
		slug       TEXT NOT NULL,
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT uniq_tenants_slug UNIQUE (slug)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tenants_created ON tenants (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_tenants_nameci ON tenants (name_ci)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		name_ci       TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		CONSTRAINT uniq_users_email UNIQUE (email)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users (role)`,
	`CREATE TABLE IF NOT EXISTS domains (
		id         TEXT PRIMARY KEY,
		tenant_id  TEXT NOT NULL REFERENCES tenants (id) ON DELETE CASCADE,
		hostname   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT uniq_domains_hostname UNIQUE (hostname)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_domains_tenant ON domains (tenant_id)`,
	`CREATE TABLE IF NOT EXISTS tenant_members (
		id         TEXT PRIMARY KEY,
		tenant_id  TEXT NOT NULL REFERENCES tenants (id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		role       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT uniq_tm_tenant_user UNIQUE (tenant_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tm_user ON tenant_members (user_id)`,
	`CREATE TABLE IF NOT EXISTS login_records (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		tenant_id  TEXT NOT NULL DEFAULT '',
		mode       TEXT NOT NULL,
		host       TEXT NOT NULL,
		ip         TEXT NOT NULL,
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_logins_user_created ON login_records (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_logins_tenant_created ON login_records (tenant_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS password_resets (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		token_hash TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		used_at    TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT uniq_resets_token UNIQUE (token_hash)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resets_user ON password_resets (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resets_expires ON password_resets (expires_at)`,
}

// EnsureSchema creates tables and indexes that do not yet exist.
func EnsureSchema(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	logger.Info("postgres schema ensured", zap.Int("statements", len(schema)))
	return nil
}

// isUnique reports whether err is a unique-constraint violation.
func isUnique(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type scanner interface {
	Scan(dest ...any) error
}
