package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-overtime/internal/config"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database/migrate"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		slog.Error("Migrations require DB_DRIVER=postgres", "driver", cfg.Database.Driver)
		os.Exit(1)
	}

	if err := migrate.Run(cfg.DatabaseURL(), *direction); err != nil {
		slog.Error("Migration failed", "direction", *direction, "error", err)
		os.Exit(1)
	}

	slog.Info("Migrations applied", "direction", *direction)
}
