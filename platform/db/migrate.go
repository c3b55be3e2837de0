package db

import (
	"context"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rotisserie/eris"
)

// RunMigrations applies all pending goose migrations found at the root of fsys.
// goose needs a database/sql handle, so one is borrowed from the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return eris.Wrap(err, "db: migrate: set dialect")
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return eris.Wrap(err, "db: migrate: up")
	}

	return nil
}
