// Package migrations holds the embedded SQL schema for the sqlite and postgres
// stores and applies it with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"blog/logging"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ApplyMigrations runs every pending up migration. An already current schema is not an error.
func ApplyMigrations(backend, dsn string, logger logging.Logger) error {
	m, err := newMigrate(backend, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply %s migrations: %w", backend, err)
	}

	logger.Printf("[Migrate] %s migrations applied", backend)
	return nil
}

// RollbackLastMigration steps the schema back by one migration.
func RollbackLastMigration(backend, dsn string, logger logging.Logger) error {
	m, err := newMigrate(backend, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback %s migration: %w", backend, err)
	}

	logger.Printf("[Migrate] rolled back last %s migration", backend)
	return nil
}

// Version reports the current schema version; ok is false before the first migration.
func Version(backend, dsn string) (version uint, dirty bool, ok bool, err error) {
	m, err := newMigrate(backend, dsn)
	if err != nil {
		return 0, false, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("read %s schema version: %w", backend, err)
	}
	return version, dirty, true, nil
}

func newMigrate(backend, dsn string) (*migrate.Migrate, error) {
	url, err := databaseURL(backend, dsn)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(files, backend)
	if err != nil {
		return nil, fmt.Errorf("load %s migrations: %w", backend, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("initialize %s migrations: %w", backend, err)
	}
	return m, nil
}

// databaseURL turns a store DSN into the URL form golang-migrate expects.
func databaseURL(backend, dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("no %s database configured", backend)
	}
	switch backend {
	case SQLite:
		path := strings.TrimPrefix(dsn, "file:")
		if i := strings.Index(path, "?"); i >= 0 {
			path = path[:i]
		}
		return "sqlite3://" + path, nil
	case Postgres:
		for _, scheme := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(dsn, scheme) {
				return "pgx5://" + strings.TrimPrefix(dsn, scheme), nil
			}
		}
		return "", fmt.Errorf("postgres dsn must start with postgres:// or postgresql://")
	default:
		return "", fmt.Errorf("no migrations for backend %q", backend)
	}
}
