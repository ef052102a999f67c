// Package migrations embeds the schema, the paged find/count routines and the write
// procedures, applied with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var FS embed.FS

const dir = "sql"

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// Apply runs every pending migration against db.
func Apply(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// ApplyPool runs migrations through a database/sql handle borrowed from pool.
func ApplyPool(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return Apply(ctx, db)
}

// Version reports the current schema version.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}
