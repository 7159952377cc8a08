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

// Resets is store.PasswordResets on PostgreSQL. Lapsed grants are removed
// whenever a new one is issued.
type Resets struct {
	db *sql.DB
}

func NewResets(db *sql.DB) *Resets {
	return &Resets{db: db}
}

func (s *Resets) Create(ctx context.Context, pr models.PasswordReset) error {
	if pr.ID == "" {
		pr.ID = uuid.NewString()
	}
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = time.Now().UTC()
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at <= $1`, pr.CreatedAt); err != nil {
		return fmt.Errorf("purge password resets: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO password_resets (id, user_id, token_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		pr.ID, pr.UserID, pr.TokenHash, pr.ExpiresAt, pr.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}

func (s *Resets) Consume(ctx context.Context, tokenHash string, now time.Time) (models.PasswordReset, error) {
	var pr models.PasswordReset
	var used sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`UPDATE password_resets SET used_at = $2
		 WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
		 RETURNING id, user_id, token_hash, expires_at, used_at, created_at`,
		tokenHash, now).Scan(&pr.ID, &pr.UserID, &pr.TokenHash, &pr.ExpiresAt, &used, &pr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PasswordReset{}, models.ErrNotFound
	}
	if err != nil {
		return models.PasswordReset{}, fmt.Errorf("consume password reset: %w", err)
	}
	if used.Valid {
		pr.UsedAt = &used.Time
	}
	return pr, nil
}

func (s *Resets) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete password resets: %w", err)
	}
	return nil
}

var _ store.PasswordResets = (*Resets)(nil)
