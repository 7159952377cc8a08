// internal/app/store/tenants/tenantstore.go
package tenantstore

import (
	"context"
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c       *mongo.Collection
	domains *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("tenants"),
		domains: db.Collection("domains"),
		members: db.Collection("tenant_members"),
	}
}

// Create inserts a new tenant. Status defaults to TRIAL.
func (s *Store) Create(ctx context.Context, t models.Tenant) (models.Tenant, error) {
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
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Tenant{}, models.ErrDuplicateSlug
		}
		return models.Tenant{}, err
	}
	return t, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Tenant, error) {
	var t models.Tenant
	if err := s.c.FindOne(ctx, filter).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Tenant{}, models.ErrNotFound
		}
		return models.Tenant{}, err
	}
	return t, nil
}

// GetByID retrieves a tenant by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (models.Tenant, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// TenantBySlug retrieves a tenant by its subdomain label.
func (s *Store) TenantBySlug(ctx context.Context, slug string) (models.Tenant, error) {
	return s.findOne(ctx, bson.M{"slug": normalize.Slug(slug)})
}

// TenantByHostname joins domains to tenants so a bound hostname resolves
// in one round trip.
func (s *Store) TenantByHostname(ctx context.Context, hostname string) (models.Tenant, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"hostname": hostname}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "tenants",
			"localField":   "tenant_id",
			"foreignField": "_id",
			"as":           "tenant",
		}}},
		{{Key: "$unwind", Value: "$tenant"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$tenant"}}},
	}
	cur, err := s.domains.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Tenant{}, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return models.Tenant{}, err
		}
		return models.Tenant{}, models.ErrNotFound
	}
	var t models.Tenant
	if err := cur.Decode(&t); err != nil {
		return models.Tenant{}, err
	}
	return t, nil
}

// ListWithCounts returns every tenant, newest first, with member and domain counts.
func (s *Store) ListWithCounts(ctx context.Context) ([]models.TenantWithCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "tenant_members",
			"localField":   "_id",
			"foreignField": "tenant_id",
			"as":           "members",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "domains",
			"localField":   "_id",
			"foreignField": "tenant_id",
			"as":           "domains",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"member_count": bson.M{"$size": "$members"},
			"domain_count": bson.M{"$size": "$domains"},
		}}},
		{{Key: "$project", Value: bson.M{"members": 0, "domains": 0}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.TenantWithCounts{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of upd and returns the updated tenant.
func (s *Store) Update(ctx context.Context, id string, upd store.TenantUpdate) (models.Tenant, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Slug != nil {
		set["slug"] = normalize.Slug(*upd.Slug)
	}
	if upd.Status != nil {
		set["status"] = status.Normalize(*upd.Status)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Tenant
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Tenant{}, models.ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return models.Tenant{}, models.ErrDuplicateSlug
		}
		return models.Tenant{}, err
	}
	return t, nil
}

// Delete removes a tenant together with its domains and memberships.
// Dependents are removed before the tenant row.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.domains.DeleteMany(ctx, bson.M{"tenant_id": id}); err != nil {
		return err
	}
	if _, err := s.members.DeleteMany(ctx, bson.M{"tenant_id": id}); err != nil {
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

var _ store.Tenants = (*Store)(nil)
