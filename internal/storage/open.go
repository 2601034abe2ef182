package storage

import (
	"context"
	"fmt"
	"log/slog"

	"regdesk/internal/platform/config"
	"regdesk/internal/platform/postgres"
	"regdesk/internal/platform/redis"
)

// Open builds the driver selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg config.Server, logger *slog.Logger) (Local, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory, "":
		logger.InfoContext(ctx, "storage driver selected", "driver", config.DriverMemory)
		return NewMemory(), nil

	case config.DriverLevelDB:
		l, err := OpenLevelDB(cfg.Storage.LevelDBPath)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "storage driver selected", "driver", config.DriverLevelDB, "path", cfg.Storage.LevelDBPath)
		return l, nil

	case config.DriverRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("redis driver selected but REDIS_URL is empty")
		}
		logger.InfoContext(ctx, "storage driver selected", "driver", config.DriverRedis)
		return &Redis{client: client.Client, ownsClient: true}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "storage driver selected", "driver", config.DriverPostgres)
		return &Postgres{db: db, ownsDB: true}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
