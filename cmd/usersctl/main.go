package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/userhub/internal/cli"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		return cli.ExitError
	}

	// diagnostics go to stderr as text so stdout stays clean for scripts
	log := observability.NewLoggerTo(os.Stderr, cfg.Env, cfg.LogLevel, "text")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := repo.Backend(cfg.DBURL)

	if backend == repo.BackendMemory {
		log.Warn("DATABASE_URL is empty, changes only live for this invocation")
	}

	store, closeStore, err := repo.Open(ctx, cfg, nil)
	if err != nil {
		log.Error("store open failed", "err", err, "backend", backend)
		return cli.ExitError
	}
	defer closeStore()

	if err := cli.Prepare(ctx, backend, store); err != nil {
		log.Error("store prepare failed", "err", err, "backend", backend)
		return cli.ExitError
	}

	return cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr, store)
}
