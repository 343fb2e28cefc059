// Command store serves the transaction and client collections the admin screens talk to.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/marina-admin/internal/config"
	"github.com/diewo77/marina-admin/internal/db"
	"github.com/diewo77/marina-admin/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.Level()}))

	dbConn, err := db.Open(cfg.Database.Driver, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Error("connecting to database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}

	repo := store.NewRepository(dbConn)
	if err := repo.Migrate(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Store.Seed {
		if err := store.SeedDemo(ctx, repo); err != nil {
			logger.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		logger.Info("demo data seeded")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Store.Port,
		Handler:      store.NewRouter(repo, logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("store starting", "port", cfg.Store.Port, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("store server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	logger.Info("store stopped")
}
