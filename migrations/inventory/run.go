package main

import (
	"embed"
	"log/slog"
	"os"

	"github.com/ghuser/restocker/pkg/config"
	"github.com/ghuser/restocker/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := migrator.RunMigrations(cfg.DatabaseURL, "inventory_goose_version", MigrationsFS); err != nil {
		slog.Error("run inventory migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("inventory migrations applied")
}
