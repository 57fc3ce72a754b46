// Package client bootstraps the local cache database and its repositories.
package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/avolkov/tracklight/internal/client/migrations"
	"github.com/avolkov/tracklight/internal/client/repositories/entries"
)

// Repositories bundles the local data access layer.
type Repositories struct {
	Entries entries.Repository
	DB      *sql.DB
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the sqlite cache at dsn, migrates it, and returns the
// repositories bound to it. The caller owns closing Repositories.DB.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Entries: entries.NewSQLiteRepository(db),
		DB:      db,
	}, nil
}
