// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store/mongostore"
	"github.com/dalemusser/tenanthub/internal/app/store/pgstore"
	"github.com/dalemusser/tenanthub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 15 * time.Second

// ConnectDB connects the backend selected by store_driver and assembles the
// store set the features use.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch appCfg.StoreDriver {
	case pgstore.Driver:
		db, err := pgstore.Open(ctx, appCfg.PostgresDSN, appCfg.PostgresMaxOpen, appCfg.PostgresMaxIdle)
		if err != nil {
			logger.Error("PostgreSQL connect failed", zap.Error(err))
			return DBDeps{}, err
		}
		logger.Info("connected to PostgreSQL")
		return DBDeps{Postgres: db, Store: pgstore.NewSet(db)}, nil

	default:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			logger.Error("MongoDB connect failed", zap.Error(err))
			return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			logger.Error("MongoDB ping failed", zap.Error(err))
			return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
		}
		db := client.Database(appCfg.MongoDatabase)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
		return DBDeps{MongoClient: client, MongoDatabase: db, Store: mongostore.NewSet(db)}, nil
	}
}

// EnsureSchema creates the unique indexes (Mongo) or tables (PostgreSQL)
// the stores rely on for slug, hostname, membership and email uniqueness.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	switch {
	case deps.Postgres != nil:
		return pgstore.EnsureSchema(ctx, deps.Postgres, logger)
	case deps.MongoDatabase != nil:
		return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
	}
	return nil
}
