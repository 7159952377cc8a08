package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/google/uuid"
)

// Members is store.Members on PostgreSQL.
type Members struct {
	db *sql.DB
}

func NewMembers(db *sql.DB) *Members {
	return &Members{db: db}
}

var errBadRole = errors.New(`role must be "admin" or "member"`)

const memberColumns = `id, tenant_id, user_id, role, created_at, updated_at`

func scanMember(row scanner) (models.TenantMember, error) {
	var m models.TenantMember
	err := row.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TenantMember{}, models.ErrNotFound
	}
	return m, err
}

func (s *Members) Create(ctx context.Context, m models.TenantMember) (models.TenantMember, error) {
	m.Role = normalize.Role(m.Role)
	if m.Role == "" {
		m.Role = models.MemberRoleMember
	}
	if !models.IsMemberRole(m.Role) {
		return models.TenantMember{}, errBadRole
	}
	now := time.Now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tenant_members (`+memberColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.TenantID, m.UserID, m.Role, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUnique(err) {
			return models.TenantMember{}, models.ErrDuplicateMember
		}
		return models.TenantMember{}, fmt.Errorf("insert membership: %w", err)
	}
	return m, nil
}

func (s *Members) GetByID(ctx context.Context, id string) (models.TenantMember, error) {
	return scanMember(s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM tenant_members WHERE id = $1`, id))
}

func (s *Members) Get(ctx context.Context, tenantID, userID string) (models.TenantMember, error) {
	return scanMember(s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM tenant_members WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID))
}

func (s *Members) ListByTenant(ctx context.Context, tenantID string) ([]models.TenantMemberView, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.tenant_id, m.user_id, m.role, m.created_at, m.updated_at,
		        u.id, u.name, u.email
		 FROM tenant_members m JOIN users u ON u.id = m.user_id
		 WHERE m.tenant_id = $1
		 ORDER BY m.created_at, m.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := []models.TenantMemberView{}
	for rows.Next() {
		var v models.TenantMemberView
		if err := rows.Scan(&v.ID, &v.TenantID, &v.UserID, &v.Role, &v.CreatedAt, &v.UpdatedAt,
			&v.User.ID, &v.User.Name, &v.User.Email); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Members) UpdateRole(ctx context.Context, id, role string) (models.TenantMember, error) {
	role = normalize.Role(role)
	if !models.IsMemberRole(role) {
		return models.TenantMember{}, errBadRole
	}
	return scanMember(s.db.QueryRowContext(ctx,
		`UPDATE tenant_members SET role = $1, updated_at = $2 WHERE id = $3 RETURNING `+memberColumns,
		role, time.Now().UTC(), id))
}

func (s *Members) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tenant_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return mustAffect(res)
}

func (s *Members) HasAnyMembership(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenant_members WHERE user_id = $1)`, userID).Scan(&ok)
	return ok, err
}

func (s *Members) IsMember(ctx context.Context, tenantID, userID string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenant_members WHERE tenant_id = $1 AND user_id = $2)`,
		tenantID, userID).Scan(&ok)
	return ok, err
}

var _ store.Members = (*Members)(nil)
