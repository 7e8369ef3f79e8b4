// Package migrator applies a bounded context's embedded goose migrations.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"github.com/ghuser/inventra/pkg/logger"
)

// RunMigrations applies every pending migration in files against dbURL.
//
// Each bounded context tracks its version in its own table (for example
// "item_goose_db_version"), so contexts migrate independently. A nil log
// skips per-migration logging.
func RunMigrations(ctx context.Context, dbURL string, files fs.FS, versionTable string, log logger.Logger) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	store, err := database.NewStore(database.DialectPostgres, versionTable)
	if err != nil {
		return fmt.Errorf("goose store %s: %w", versionTable, err)
	}
	provider, err := goose.NewProvider("", db, files, goose.WithStore(store))
	if err != nil {
		return fmt.Errorf("goose provider %s: %w", versionTable, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to up migrations (%s): %w", versionTable, err)
	}
	if log != nil {
		for _, r := range results {
			log.InfoContext(ctx, "migration applied",
				"table", versionTable,
				"version", r.Source.Version,
				"file", r.Source.Path,
				"duration_ms", r.Duration.Milliseconds(),
			)
		}
	}
	return nil
}
