package userstore

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
// It works against any store.Users backend.
type Fetcher struct {
	users store.Users
}

// NewFetcher creates a UserFetcher backed by users.
func NewFetcher(users store.Users) *Fetcher {
	return &Fetcher{users: users}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found,
// disabled, or if any error occurs. This implements auth.UserFetcher.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	if userID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.users.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	if normalize.Status(u.Status) == status.UserDisabled {
		return nil
	}

	return &auth.SessionUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  normalize.Role(u.Role),
	}
}
