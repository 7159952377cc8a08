package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
)

// Tenants is store.Tenants on PostgreSQL.
type Tenants struct {
	db *sql.DB
}

func NewTenants(db *sql.DB) *Tenants {
	return &Tenants{db: db}
}

const tenantColumns = `t.id, t.name, t.name_ci, t.slug, t.status, t.created_at, t.updated_at`

func scanTenant(row scanner) (models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.NameCI, &t.Slug, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tenant{}, models.ErrNotFound
	}
	return t, err
}

func (s *Tenants) Create(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.Name = normalize.Name(t.Name)
	t.NameCI = text.Fold(t.Name)
	t.Slug = normalize.Slug(t.Slug)
	t.Status = status.Normalize(t.Status)
	if t.Status == "" {
		t.Status = status.DefaultTenant
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tenants (id, name, name_ci, slug, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, t.NameCI, t.Slug, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUnique(err) {
			return models.Tenant{}, models.ErrDuplicateSlug
		}
		return models.Tenant{}, fmt.Errorf("insert tenant: %w", err)
	}
	return t, nil
}

func (s *Tenants) GetByID(ctx context.Context, id string) (models.Tenant, error) {
	return scanTenant(s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants t WHERE t.id = $1`, id))
}

func (s *Tenants) TenantBySlug(ctx context.Context, slug string) (models.Tenant, error) {
	return scanTenant(s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants t WHERE t.slug = $1`, normalize.Slug(slug)))
}

// TenantByHostname resolves a bound hostname with a single join.
func (s *Tenants) TenantByHostname(ctx context.Context, hostname string) (models.Tenant, error) {
	return scanTenant(s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+`
		 FROM domains d JOIN tenants t ON t.id = d.tenant_id
		 WHERE d.hostname = $1`, hostname))
}

func (s *Tenants) ListWithCounts(ctx context.Context) ([]models.TenantWithCounts, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tenantColumns+`,
		        (SELECT COUNT(*) FROM tenant_members m WHERE m.tenant_id = t.id),
		        (SELECT COUNT(*) FROM domains d WHERE d.tenant_id = t.id)
		 FROM tenants t
		 ORDER BY t.created_at DESC, t.id`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	out := []models.TenantWithCounts{}
	for rows.Next() {
		var r models.TenantWithCounts
		if err := rows.Scan(&r.ID, &r.Name, &r.NameCI, &r.Slug, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&r.MemberCount, &r.DomainCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Tenants) Update(ctx context.Context, id string, upd store.TenantUpdate) (models.Tenant, error) {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		add("name", name)
		add("name_ci", text.Fold(name))
	}
	if upd.Slug != nil {
		add("slug", normalize.Slug(*upd.Slug))
	}
	if upd.Status != nil {
		add("status", status.Normalize(*upd.Status))
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE tenants t SET %s WHERE t.id = $%d RETURNING `+tenantColumns,
		strings.Join(sets, ", "), len(args))
	t, err := scanTenant(s.db.QueryRowContext(ctx, q, args...))
	if err != nil && isUnique(err) {
		return models.Tenant{}, models.ErrDuplicateSlug
	}
	return t, err
}

// Delete removes the tenant; domains and memberships go with it through
// ON DELETE CASCADE.
func (s *Tenants) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return mustAffect(res)
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

var _ store.Tenants = (*Tenants)(nil)
