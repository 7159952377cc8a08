// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"database/sql"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Exactly one backend is connected, chosen by store_driver; Store is
// always set and is what features use.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Postgres      *sql.DB

	Store store.Set
}
