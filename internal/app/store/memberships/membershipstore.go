// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tenant_members")}
}

var errBadRole = errors.New(`role must be "admin" or "member"`)

// Create adds a user to a tenant. Role defaults to member.
func (s *Store) Create(ctx context.Context, m models.TenantMember) (models.TenantMember, error) {
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
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TenantMember{}, models.ErrDuplicateMember
		}
		return models.TenantMember{}, err
	}
	return m, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.TenantMember, error) {
	var m models.TenantMember
	if err := s.c.FindOne(ctx, filter).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.TenantMember{}, models.ErrNotFound
		}
		return models.TenantMember{}, err
	}
	return m, nil
}

// GetByID loads a membership by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (models.TenantMember, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// Get loads the membership for (tenantID, userID).
func (s *Store) Get(ctx context.Context, tenantID, userID string) (models.TenantMember, error) {
	return s.findOne(ctx, bson.M{"tenant_id": tenantID, "user_id": userID})
}

// ListByTenant returns the tenant's memberships joined with their users,
// oldest first.
func (s *Store) ListByTenant(ctx context.Context, tenantID string) ([]models.TenantMemberView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tenant_id": tenantID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{
			"tenant_id":  1,
			"user_id":    1,
			"role":       1,
			"created_at": 1,
			"updated_at": 1,
			"user._id":   1,
			"user.name":  1,
			"user.email": 1,
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.TenantMemberView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRole changes a membership's role and returns the updated row.
func (s *Store) UpdateRole(ctx context.Context, id, role string) (models.TenantMember, error) {
	role = normalize.Role(role)
	if !models.IsMemberRole(role) {
		return models.TenantMember{}, errBadRole
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}}
	var m models.TenantMember
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.TenantMember{}, models.ErrNotFound
		}
		return models.TenantMember{}, err
	}
	return m, nil
}

// Delete removes a membership by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// HasAnyMembership reports whether the user belongs to at least one tenant.
func (s *Store) HasAnyMembership(ctx context.Context, userID string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsMember reports whether the user belongs to the tenant.
func (s *Store) IsMember(ctx context.Context, tenantID, userID string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"tenant_id": tenantID, "user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ store.Members = (*Store)(nil)
