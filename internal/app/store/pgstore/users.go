package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
)

// Users is store.Users on PostgreSQL.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

var (
	errBadPlatformRole = errors.New(`role must be "" or "superadmin"`)
	errBadUserStatus   = errors.New(`status must be "active"|"disabled"`)
)

const userColumns = `id, name, name_ci, email, password_hash, role, status, created_at, updated_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.NameCI, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	return u, err
}

func (s *Users) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = uuid.NewString()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.Status = normalize.Status(u.Status)
	if u.Status == "" {
		u.Status = status.UserActive
	}
	if u.Role != "" && u.Role != models.RoleSuperAdmin {
		return models.User{}, errBadPlatformRole
	}
	if u.Status != status.UserActive && u.Status != status.UserDisabled {
		return models.User{}, errBadUserStatus
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.NameCI, u.Email, u.PasswordHash, u.Role, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUnique(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Users) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Users) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, normalize.Email(email)))
}

func (s *Users) SetRole(ctx context.Context, id, role string) error {
	role = normalize.Role(role)
	if role != "" && role != models.RoleSuperAdmin {
		return errBadPlatformRole
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`, role, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return mustAffect(res)
}

func (s *Users) SetPasswordHash(ctx context.Context, id, hash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return mustAffect(res)
}

// Delete removes the user; memberships cascade.
func (s *Users) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return mustAffect(res)
}

var _ store.Users = (*Users)(nil)
