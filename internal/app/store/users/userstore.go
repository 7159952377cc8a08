package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c       *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("users"),
		members: db.Collection("tenant_members"),
	}
}

var (
	errBadRole   = errors.New(`role must be "" or "superadmin"`)
	errBadStatus = errors.New(`status must be "active"|"disabled"`)
)

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ID.
func (s *Store) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// Create inserts a new user after normalizing & validating fields.
// It does not create any tenant membership.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
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
		return models.User{}, errBadRole
	}
	if u.Status != status.UserActive && u.Status != status.UserDisabled {
		return models.User{}, errBadStatus
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) set(ctx context.Context, id string, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetRole changes the user's platform role.
func (s *Store) SetRole(ctx context.Context, id, role string) error {
	role = normalize.Role(role)
	if role != "" && role != models.RoleSuperAdmin {
		return errBadRole
	}
	return s.set(ctx, id, bson.M{"role": role})
}

// SetPasswordHash replaces the user's bcrypt hash.
func (s *Store) SetPasswordHash(ctx context.Context, id, hash string) error {
	return s.set(ctx, id, bson.M{"password_hash": hash})
}

// Delete removes a user and every membership they hold.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.members.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

var _ store.Users = (*Store)(nil)
