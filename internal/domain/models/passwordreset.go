package models

import "time"

// PasswordReset is a single-use password recovery grant. Only the SHA-256
// of the emailed token is stored.
type PasswordReset struct {
	ID        string     `bson:"_id" json:"id"`
	UserID    string     `bson:"user_id" json:"userId"`
	TokenHash string     `bson:"token_hash" json:"-"`
	ExpiresAt time.Time  `bson:"expires_at" json:"expiresAt"`
	UsedAt    *time.Time `bson:"used_at,omitempty" json:"usedAt,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
}
