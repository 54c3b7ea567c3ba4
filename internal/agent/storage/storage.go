// Package storage bootstraps the agent's local SQLite database and bundles
// the repository set the rest of the agent works against.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/careview/vitalsync/internal/agent/migrations"
	"github.com/careview/vitalsync/internal/agent/repositories/devices"
	"github.com/careview/vitalsync/internal/agent/repositories/profile"
	"github.com/careview/vitalsync/internal/agent/repositories/readings"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the per-entity repositories backed by one database.
type Repositories struct {
	Readings readings.Repository
	Devices  devices.Repository
	Profile  profile.Repository
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (or creates) the database at dsn, applies migrations, and
// returns the handle together with the repository bundle.
func Open(ctx context.Context, dsn string) (*sql.DB, *Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := &Repositories{
		Readings: readings.NewSQLiteRepository(db),
		Devices:  devices.NewSQLiteRepository(db),
		Profile:  profile.NewSQLiteRepository(db),
	}
	return db, repos, nil
}
