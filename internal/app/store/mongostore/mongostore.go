// Package mongostore assembles the MongoDB-backed store.Set.
package mongostore

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/store"
	domainstore "github.com/dalemusser/tenanthub/internal/app/store/domains"
	loginstore "github.com/dalemusser/tenanthub/internal/app/store/logins"
	membershipstore "github.com/dalemusser/tenanthub/internal/app/store/memberships"
	resetstore "github.com/dalemusser/tenanthub/internal/app/store/passwordresets"
	tenantstore "github.com/dalemusser/tenanthub/internal/app/store/tenants"
	userstore "github.com/dalemusser/tenanthub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Driver is the store_driver value selecting this backend.
const Driver = "mongo"

// NewSet returns the Mongo stores for db.
func NewSet(db *mongo.Database) store.Set {
	return store.Set{
		Tenants: tenantstore.New(db),
		Domains: domainstore.New(db),
		Members: membershipstore.New(db),
		Users:   userstore.New(db),
		Logins:  loginstore.New(db),
		Resets:  resetstore.New(db),
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
		Driver: Driver,
	}
}
