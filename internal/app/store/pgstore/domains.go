package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/google/uuid"
)

// Domains is store.Domains on PostgreSQL.
type Domains struct {
	db *sql.DB
}

func NewDomains(db *sql.DB) *Domains {
	return &Domains{db: db}
}

func (s *Domains) Create(ctx context.Context, d models.Domain) (models.Domain, error) {
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO domains (id, tenant_id, hostname, created_at) VALUES ($1, $2, $3, $4)`,
		d.ID, d.TenantID, d.Hostname, d.CreatedAt)
	if err != nil {
		if isUnique(err) {
			return models.Domain{}, models.ErrDuplicateHostname
		}
		return models.Domain{}, fmt.Errorf("insert domain: %w", err)
	}
	return d, nil
}

func (s *Domains) GetByID(ctx context.Context, id string) (models.Domain, error) {
	var d models.Domain
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, hostname, created_at FROM domains WHERE id = $1`, id).
		Scan(&d.ID, &d.TenantID, &d.Hostname, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Domain{}, models.ErrNotFound
	}
	return d, err
}

func (s *Domains) ListByTenant(ctx context.Context, tenantID string) ([]models.Domain, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, hostname, created_at FROM domains WHERE tenant_id = $1 ORDER BY hostname`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	out := []models.Domain{}
	for rows.Next() {
		var d models.Domain
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Hostname, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Domains) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM domains WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	return mustAffect(res)
}

var _ store.Domains = (*Domains)(nil)
