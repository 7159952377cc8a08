package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/google/uuid"
)

// Logins is store.Logins on PostgreSQL.
type Logins struct {
	db *sql.DB
}

func NewLogins(db *sql.DB) *Logins {
	return &Logins{db: db}
}

func (s *Logins) Create(ctx context.Context, rec models.LoginRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO login_records (id, user_id, tenant_id, mode, host, ip, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.UserID, rec.TenantID, rec.Mode, rec.Host, rec.IP, rec.UserAgent, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert login record: %w", err)
	}
	return nil
}

func (s *Logins) RecentByTenant(ctx context.Context, tenantID string, limit int64) ([]models.LoginRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, tenant_id, mode, host, ip, user_agent, created_at
		 FROM login_records WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list login records: %w", err)
	}
	defer rows.Close()

	out := []models.LoginRecord{}
	for rows.Next() {
		var r models.LoginRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.TenantID, &r.Mode, &r.Host, &r.IP, &r.UserAgent, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ store.Logins = (*Logins)(nil)
