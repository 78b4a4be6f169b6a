package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adnan1921/radnja-tracker/internal/amqp"
	"github.com/Adnan1921/radnja-tracker/internal/backup"
	gjournal "github.com/Adnan1921/radnja-tracker/internal/backup/google"
	memjournal "github.com/Adnan1921/radnja-tracker/internal/backup/memory"
	"github.com/Adnan1921/radnja-tracker/internal/cli"
	applog "github.com/Adnan1921/radnja-tracker/internal/log"
	"github.com/Adnan1921/radnja-tracker/internal/storage"
	"github.com/Adnan1921/radnja-tracker/internal/worker"
)

func main() {
	cfg, logger, err := cli.Bootstrap(applog.ComponentWorker)
	if err != nil {
		logger.Error("Startup failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Starting radnja-worker")

	// The worker reads backup state directly, so it always uses SQLite
	// regardless of the server's DATA_BACKEND.
	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	var journal backup.JournalWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gjournal.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets journal", applog.FieldError, err)
			os.Exit(1)
		}
		journal = client
		logger.Info("Google Sheets journal initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		// Keeps the pipeline runnable locally; rows are lost on restart.
		journal = memjournal.New()
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided, using in-memory journal")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	backupWorker := worker.NewBackupWorker(store, journal, cfg.BackupBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Drain whatever accumulated while the worker was down.
	logger.Info("Performing startup backup check...")
	if err := backupWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup backup check failed", applog.FieldError, err)
		// Keep going; the periodic scan retries.
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeSaleEvents(ctx, func(msg *amqp.SaleEventMessage) error {
			return backupWorker.HandleEvent(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.BackupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := backupWorker.ProcessPending(ctx); err != nil {
					logger.Error("Periodic backup scan failed", applog.FieldError, err)
				}
			}
		}
	})

	logger.Info("Worker running",
		"queue", cfg.AMQPQueue,
		"batch_size", cfg.BackupBatchSize,
		"interval", cfg.BackupInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
