package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/contactform/backend/internal/config"
	"github.com/contactform/backend/internal/logging"
	"github.com/contactform/backend/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply pending migrations
  reset       drop every table, then apply all migrations`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO", "json")
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd != "" && cmd != "reset" {
		usage()
	}

	ctx := context.Background()

	if cfg.Store.Driver == repository.DriverBolt {
		if cmd == "reset" {
			if err := os.Remove(cfg.Store.BoltPath); err != nil && !os.IsNotExist(err) {
				logging.Fatal("remove bolt file failed", "path", cfg.Store.BoltPath, "error", err)
			}
			slog.Info("bolt file removed", "path", cfg.Store.BoltPath)
		}
		store, err := repository.OpenBoltSubmissionRepository(cfg.Store.BoltPath)
		if err != nil {
			logging.Fatal("open bolt failed", "error", err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			logging.Fatal("migrate failed", "error", err)
		}
		slog.Info("bolt schema ready", "path", cfg.Store.BoltPath)
		return
	}

	pool, err := repository.NewPool(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	if cmd == "reset" {
		slog.Info("dropping all tables")
		if err := repository.DropAll(ctx, pool); err != nil {
			logging.Fatal("drop all failed", "error", err)
		}
		slog.Info("all tables dropped")
	}

	applied, err := repository.ApplyMigrations(ctx, pool)
	if err != nil {
		logging.Fatal("migration failed", "error", err)
	}
	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
}
