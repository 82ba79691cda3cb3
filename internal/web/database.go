package web

import (
	"context"
	"fmt"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/adapter/persistence/firebase"
	"firebase-web/internal/web/adapter/persistence/memory"
	"firebase-web/internal/web/adapter/persistence/mongodb"
	redispersistence "firebase-web/internal/web/adapter/persistence/redis"
	"firebase-web/internal/web/config"
	"firebase-web/internal/web/domain/repository"
)

// Closer releases the connection behind a database client.
type Closer func(ctx context.Context) error

// NewDatabaseClient opens the database selected by cfg.Backend.
func NewDatabaseClient(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.DatabaseClient, Closer, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewClient(), noop, nil

	case config.BackendFirebase:
		client, err := firebase.NewClient(ctx, firebase.Config{
			DatabaseURL:     cfg.Firebase.DatabaseURL,
			CredentialsFile: cfg.Firebase.CredentialsFile,
			ProjectID:       cfg.Firebase.ProjectID,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return client, noop, nil

	case config.BackendMongoDB:
		client, conn, err := mongodb.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Collection, log)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = conn.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ping mongodb: %w", err)
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			_ = conn.Disconnect(ctx)
			return nil, nil, fmt.Errorf("create mongodb indexes: %w", err)
		}
		return client, conn.Disconnect, nil

	case config.BackendRedis:
		rdb := config.NewRedisClient(cfg.Redis)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return redispersistence.NewClient(rdb, cfg.Redis.KeyPrefix, log), func(context.Context) error {
			return rdb.Close()
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown database backend %q", cfg.Backend)
}
