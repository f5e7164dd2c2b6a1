package cmd

import (
	"context"
	"fmt"

	"blog/config"
	"blog/db"
	"blog/logging"
	"blog/pkg/db/migrations"
	"blog/post"
	"blog/store/memory"
	mongostore "blog/store/mongo"
	"blog/store/postgres"
	"blog/store/sqlite"
)

// openStore connects the configured backend. The returned func releases its connections.
func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (post.Store, func(), error) {
	if cfg.MigrateOnStart && cfg.MigrationDSN() != "" {
		if err := migrations.ApplyMigrations(cfg.Backend, cfg.MigrationDSN(), logger); err != nil {
			return nil, nil, err
		}
	}

	switch cfg.Backend {
	case config.BackendMemory:
		logger.Printf("[Posts] Using in-memory store")
		return memory.New(), func() {}, nil

	case config.BackendSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Printf("[Posts] Using sqlite store at %s", cfg.SQLitePath)
		return sqlite.New(conn), func() { conn.Close() }, nil

	case config.BackendPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.PostgresURL, int32(cfg.PostgresMaxConns))
		if err != nil {
			return nil, nil, err
		}
		logger.Printf("[Posts] Using postgres store")
		return postgres.New(pool), pool.Close, nil

	case config.BackendMongo:
		client, err := db.OpenMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.New(client, cfg.MongoDatabase)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		logger.Printf("[Posts] Using mongo store, database %s", cfg.MongoDatabase)
		return store, func() { _ = client.Disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("%w %q", config.ErrUnknownBackend, cfg.Backend)
}
