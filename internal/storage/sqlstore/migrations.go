package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, p *goose.Provider) error {
	_, err := p.Up(ctx)
	return err
}

// migrate applies the embedded migrations for the dialect.
func migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	dir, err := fs.Sub(migrationFiles, "migrations/"+dialect.String())
	if err != nil {
		return fmt.Errorf("failed to locate migrations: %w", err)
	}

	gooseDialect := goose.DialectSQLite3
	if dialect == Postgres {
		gooseDialect = goose.DialectPostgres
	}

	provider, err := goose.NewProvider(gooseDialect, db, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	return gooseUp(ctx, provider)
}
