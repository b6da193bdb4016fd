package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/userhub/internal/admin"
	"github.com/geocoder89/userhub/internal/config"
	httpx "github.com/geocoder89/userhub/internal/http"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo"
	"github.com/joho/godotenv"
)

func main() {
	// a .env file is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "err", err)
	}

	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	prom := observability.NewProm()

	store, closeStore, err := repo.Open(ctx, cfg, prom)
	if err != nil {
		log.Error("store open failed", "err", err, "backend", repo.Backend(cfg.DBURL))
		os.Exit(1)
	}
	defer closeStore()

	general := admin.NewGeneral(store)

	if err := general.CreateTables(ctx); err != nil {
		log.Error("create tables failed", "err", err)
		os.Exit(1)
	}

	// the in-memory store starts empty on every boot, give it the demo data.
	// Resets only ever touch that store, never a real database.
	if repo.Backend(cfg.DBURL) == repo.BackendMemory {
		if err := general.PopulateMockData(ctx); err != nil {
			log.Error("populate mock data failed", "err", err)
			os.Exit(1)
		}

		go general.RunResetLoop(ctx, cfg.DemoResetInterval, log)
	} else if cfg.DemoResetInterval > 0 {
		log.Warn("DEMO_RESET_INTERVAL ignored, demo resets only run on the in-memory store",
			"backend", repo.Backend(cfg.DBURL),
		)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, store, cfg, prom)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		log.Info("Server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"backend", repo.Backend(cfg.DBURL),
			"ui", cfg.StaticDir,
		)

		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown

	select {
	case <-ctx.Done():
		log.Info("server shutting down")
	case err := <-serverErr:
		log.Error("server failed", "err", err)
	}

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")
}
