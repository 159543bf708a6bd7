package storage

import (
	"context"
	"fmt"

	"movierater/database"
	"movierater/internal/config"
	"movierater/internal/pkg/logger"
)

// Open builds the backend selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Store, error) {
	switch cfg.StorageDriver {
	case "memory":
		log.Warn("Using in-memory storage; ratings are lost on restart")
		return NewMemoryStore(), nil
	case "sql", "":
		db, err := database.ConnectDB(cfg, log)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db)
	case "redis":
		client, err := NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to Redis storage", "prefix", cfg.RedisPrefix)
		return NewRedisStore(client, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StorageDriver)
	}
}
