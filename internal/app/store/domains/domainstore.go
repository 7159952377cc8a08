// internal/app/store/domains/domainstore.go
package domainstore

import (
	"context"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
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
	return &Store{c: db.Collection("domains")}
}

// Create binds a hostname to a tenant. The caller normalizes the hostname.
func (s *Store) Create(ctx context.Context, d models.Domain) (models.Domain, error) {
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Domain{}, models.ErrDuplicateHostname
		}
		return models.Domain{}, err
	}
	return d, nil
}

// GetByID retrieves a domain by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (models.Domain, error) {
	var d models.Domain
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Domain{}, models.ErrNotFound
		}
		return models.Domain{}, err
	}
	return d, nil
}

// ListByTenant returns the tenant's domains ordered by hostname.
func (s *Store) ListByTenant(ctx context.Context, tenantID string) ([]models.Domain, error) {
	opts := options.Find().SetSort(bson.D{{Key: "hostname", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Domain{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a domain by ID.
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

var _ store.Domains = (*Store)(nil)
