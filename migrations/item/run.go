package main

import (
	"context"
	"embed"
	"log/slog"
	"os"

	"github.com/ghuser/inventra/pkg/config"
	"github.com/ghuser/inventra/pkg/logger"
	"github.com/ghuser/inventra/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg).With("context", "item")
	if err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, MigrationsFS, "item_goose_db_version", log); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
