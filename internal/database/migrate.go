package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/isdelr/falling-game-be/internal/database/migrations"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

// Migrate applies the embedded schema migrations for the database's dialect.
func Migrate(ctx context.Context, db *DB) error {
	var (
		dir     string
		dialect goose.Dialect
	)
	switch db.Dialect {
	case SQLite:
		dir, dialect = "sqlite", goose.DialectSQLite3
	case Postgres:
		dir, dialect = "postgres", goose.DialectPostgres
	default:
		return fmt.Errorf("no migrations for dialect %q", db.Dialect)
	}

	fsys, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		log.Info().Str("migration", r.Source.Path).Dur("took", r.Duration).Msg("Applied migration")
	}
	return nil
}
