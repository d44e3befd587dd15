package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haowan-apps/fangboard/internal/config"
	"github.com/haowan-apps/fangboard/internal/counter"
	"github.com/haowan-apps/fangboard/internal/dashboard"
	"github.com/haowan-apps/fangboard/internal/events"
	"github.com/haowan-apps/fangboard/internal/gate"
	"github.com/haowan-apps/fangboard/internal/server"
	"github.com/haowan-apps/fangboard/internal/session"
	"github.com/haowan-apps/fangboard/internal/snapshot"
	"github.com/haowan-apps/fangboard/internal/store"
	"github.com/haowan-apps/fangboard/internal/store/filestore"
	"github.com/haowan-apps/fangboard/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Open the counter store: postgres when a database is configured,
		// the JSON file otherwise.
		counterStore, err := openCounterStore(cfg, logger)
		if err != nil {
			return err
		}
		defer counterStore.Close()

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (FANGBOARD_NATS_URL not set)")
		}
		defer publisher.Close()

		// Load the dashboard dataset.
		dash := dashboard.Default()
		if cfg.DataPath != "" {
			if dash, err = dashboard.Load(cfg.DataPath); err != nil {
				return err
			}
			logger.Info("dataset loaded", "path", cfg.DataPath)
		}

		// Wire the gate server.
		sessions := session.NewManager(cfg.SessionTTL)
		sessions.StartJanitor(time.Minute)
		defer sessions.StopJanitor()

		gateServer := server.NewGateServer(
			gate.New(cfg.UnlockSecret, cfg.FreePeriod, cfg.UnlockDuration),
			sessions,
			counter.New(counterStore, publisher, logger),
			dash,
			publisher,
			logger,
		)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: gateServer.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the snapshot scheduler if configured.
		var scheduler *snapshot.Scheduler
		if cfg.SnapshotInterval > 0 && cfg.SnapshotS3Bucket != "" {
			s3Dest, err := snapshot.NewS3Destination(
				context.Background(),
				cfg.SnapshotS3Bucket,
				cfg.SnapshotS3Key,
				cfg.SnapshotS3Region,
				cfg.SnapshotS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 snapshot destination", "err", err)
			} else {
				scheduler = snapshot.NewScheduler(counterStore, []snapshot.Destination{s3Dest}, cfg.SnapshotInterval, logger)
				scheduler.Start()
				logger.Info("snapshot scheduler started", "interval", cfg.SnapshotInterval, "bucket", cfg.SnapshotS3Bucket)
			}
		}

		// Wait for shutdown signal.
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")

		if scheduler != nil {
			scheduler.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "err", err)
		}
		return nil
	},
}

func openCounterStore(cfg *config.Config, logger *slog.Logger) (store.CounterStore, error) {
	if cfg.DatabaseURL != "" {
		s, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("counter store: postgres")
		return s, nil
	}
	logger.Info("counter store: file", "path", cfg.CounterPath)
	return filestore.New(cfg.CounterPath), nil
}
