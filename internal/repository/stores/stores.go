// Package stores opens the storage backend selected by the configuration.
package stores

import (
	"context"
	"fmt"

	"clubsphere-backend/internal/config"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/repository"
	"clubsphere-backend/internal/repository/memory"
	"clubsphere-backend/internal/repository/mongo"
	"clubsphere-backend/internal/repository/postgres"
)

// Open connects to the configured backend. The caller closes the store.
func Open(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, err
		}
		if cfg.Server.AutoMigrateSchema {
			if err := postgres.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
			logger.Info("Database schema ensured")
		}
		logger.Info("Database connection established")
		return postgres.NewStore(db), nil

	case config.StoreMongo:
		logger.Info("Connecting to MongoDB...", "database", cfg.Mongo.Database)
		client, err := mongo.Dial(ctx, cfg.Mongo.URI, cfg.Mongo.Database, config.MustDuration(cfg.Mongo.ConnectionTimeout))
		if err != nil {
			return nil, err
		}
		logger.Info("MongoDB connection established")
		return mongo.NewStore(client), nil

	case config.StoreMemory:
		logger.Warn("Using in-memory store, data is lost on exit")
		return memory.NewStore()

	default:
		return nil, fmt.Errorf("unsupported store: %q", cfg.Store)
	}
}
