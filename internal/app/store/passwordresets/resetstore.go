// internal/app/store/passwordresets/resetstore.go
package resetstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds the grants. A TTL index on expires_at removes them once
// they lapse (see indexes.EnsureAll).
const Collection = "password_resets"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) Create(ctx context.Context, pr models.PasswordReset) error {
	if pr.ID == "" {
		pr.ID = uuid.NewString()
	}
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, pr)
	return err
}

// Consume claims the grant in one round trip, so two concurrent resets with
// the same token cannot both succeed.
func (s *Store) Consume(ctx context.Context, tokenHash string, now time.Time) (models.PasswordReset, error) {
	filter := bson.M{
		"token_hash": tokenHash,
		"used_at":    bson.M{"$exists": false},
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"used_at": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var pr models.PasswordReset
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&pr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PasswordReset{}, models.ErrNotFound
	}
	if err != nil {
		return models.PasswordReset{}, err
	}
	return pr, nil
}

func (s *Store) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

var _ store.PasswordResets = (*Store)(nil)
