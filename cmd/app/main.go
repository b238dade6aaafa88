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

	"github.com/slotjack/wheelhouse/internal/config"
	"github.com/slotjack/wheelhouse/internal/database"
	"github.com/slotjack/wheelhouse/internal/database/postgres"
	"github.com/slotjack/wheelhouse/internal/event"
	"github.com/slotjack/wheelhouse/internal/handler"
	"github.com/slotjack/wheelhouse/internal/ledger"
	"github.com/slotjack/wheelhouse/internal/logger"
	"github.com/slotjack/wheelhouse/internal/server"
	"github.com/slotjack/wheelhouse/internal/wheel"
)

const (
	serviceName     = "wheelhouse"
	shutdownTimeout = 15 * time.Second

	dbMaxConns   = 10
	dbMaxIdle    = 5 * time.Minute
	dbMaxLife    = 30 * time.Minute
	dbPingWindow = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.Init(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, serviceName, cfg.Version, cfg.Environment, false))
	slog.Info("Starting wheelhouse",
		"environment", cfg.Environment,
		"version", cfg.Version,
		"port", cfg.Port)

	handler.InitValidator()

	// Database
	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxIdle, dbMaxLife)
	if err != nil {
		slog.Error("Failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), dbPingWindow)
	if err := dbPool.Ping(pingCtx); err != nil {
		cancelPing()
		slog.Error("Database unreachable", "error", err)
		os.Exit(1)
	}
	cancelPing()

	// Wheel catalog
	table, err := wheel.LoadTable(cfg.WheelConfigPath)
	if err != nil {
		slog.Error("Failed to load wheel configuration", "error", err, "path", cfg.WheelConfigPath)
		os.Exit(1)
	}
	slog.Info("Wheel catalog loaded", "segments", table.Len(), "total_weight", table.TotalWeight())

	// Events
	eventBus := event.NewMemoryBus()
	publisher := event.NewResilientPublisher(eventBus, event.DefaultResilientConfig(cfg.DeadLetterPath))

	// Repositories and services
	wheelStore := postgres.NewWheelStore(dbPool, cfg.HistoryLimit)
	ledgerStore := postgres.NewLedgerStore(dbPool)

	ledgerService := ledger.NewService(ledgerStore)
	ledger.SubscribeToSpinEvents(eventBus, ledgerService)

	wheelOpts := []wheel.Option{wheel.WithHistoryLimit(cfg.HistoryLimit)}
	if cfg.SpinCooldown > 0 {
		slog.Warn("Spin cooldown overridden", "cooldown", cfg.SpinCooldown)
		wheelOpts = append(wheelOpts, wheel.WithCooldown(cfg.SpinCooldown))
	}
	wheelService := wheel.NewService(wheelStore, table, publisher, wheelOpts...)

	srv := server.NewServer(server.Config{
		Port:        cfg.Port,
		APIKey:      cfg.APIKey,
		ServiceName: serviceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, dbPool, wheelService, ledgerService)

	// Run until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// Flush in-flight events before the pool closes
	publisher.Wait()

	slog.Info("Server stopped")
}
