package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tripsplit/tripsplit/internal/bot"
	"github.com/tripsplit/tripsplit/internal/config"
	"github.com/tripsplit/tripsplit/internal/metrics"
	"github.com/tripsplit/tripsplit/internal/service"
	"github.com/tripsplit/tripsplit/internal/storage/sqlite"
	"github.com/tripsplit/tripsplit/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	trips := service.NewTripService(store, cfg.Currencies)
	debts := service.NewDebtService(store, cfg.DefaultCategory)

	b, err := bot.New(cfg, trips, debts, store)
	if err != nil {
		slog.Error("Failed to start bot", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot authenticated", "username", b.Username())

	go metrics.Serve(cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b.Run(ctx)
}
