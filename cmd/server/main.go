package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmhouse/wallet-api/internal/config"
	"github.com/dmhouse/wallet-api/internal/eventbus"
	"github.com/dmhouse/wallet-api/internal/handler"
	"github.com/dmhouse/wallet-api/internal/server"
	"github.com/dmhouse/wallet-api/internal/service"
	"github.com/dmhouse/wallet-api/internal/storage"
	"github.com/dmhouse/wallet-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	ctx := context.Background()
	log.Info(ctx, "Starting wallet API")

	repo := storage.NewMemoryStore()
	snapshotter := storage.NewFileSnapshotter(cfg.Snapshot.Path)

	if data, err := snapshotter.Load(); err != nil {
		log.Fatal(ctx, "Failed to read snapshot",
			"path", cfg.Snapshot.Path,
			"error", err,
		)
	} else if data != nil {
		if err := repo.Restore(ctx, data); err != nil {
			log.Fatal(ctx, "Failed to restore snapshot",
				"path", cfg.Snapshot.Path,
				"error", err,
			)
		}
		log.Info(ctx, "State restored from snapshot",
			"path", cfg.Snapshot.Path,
		)
	}

	bus := eventbus.New(log, &eventbus.Config{
		ChannelBuffer: cfg.EventBus.ChannelBufferSize,
		MaxRetries:    cfg.Snapshot.MaxRetries,
	})

	snapshotConsumer := eventbus.NewSnapshotConsumer(repo, snapshotter, log)
	if err := bus.Subscribe(eventbus.EventTypeStateChanged, snapshotConsumer); err != nil {
		log.Fatal(ctx, "Failed to subscribe snapshot consumer",
			"error", err,
		)
	}

	if err := bus.Start(ctx); err != nil {
		log.Fatal(ctx, "Failed to start event bus",
			"error", err,
		)
	}

	authService := service.NewAuthService(repo, bus, log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	activityService := service.NewActivityService(repo, log)
	paymentMethodService := service.NewPaymentMethodService(repo, bus, log)
	transactionService := service.NewTransactionService(repo, bus, log)
	log.Info(ctx, "Services initialized")

	srv := server.New(
		cfg,
		log,
		authService,
		handler.NewAuthHandler(authService, log),
		handler.NewActivityHandler(activityService, log),
		handler.NewPaymentMethodHandler(paymentMethodService, log),
		handler.NewTransactionHandler(transactionService, repo, log),
		handler.NewHealthHandler(),
	)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal(ctx, "Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	log.Info(ctx, "Wallet API started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "HTTP server shutdown error",
			"error", err,
		)
	}

	if err := bus.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "Event bus shutdown error",
			"error", err,
		)
	}

	// Final snapshot so nothing recorded after the last event is lost.
	if data, err := repo.Snapshot(ctx); err != nil {
		log.Error(ctx, "Failed to serialize final snapshot",
			"error", err,
		)
	} else if err := snapshotter.Save(data); err != nil {
		log.Error(ctx, "Failed to persist final snapshot",
			"error", err,
		)
	}

	log.Info(ctx, "Wallet API stopped gracefully")
}
