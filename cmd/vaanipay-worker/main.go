package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"vaanipay/internal/config"
	"vaanipay/internal/events"
	"vaanipay/internal/log"
	"vaanipay/internal/statement"
	"vaanipay/internal/storage"
	"vaanipay/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logCfg := log.DefaultConfig()
	logCfg.Component = log.ComponentWorker
	logger := log.New(logCfg)
	log.SetDefault(logger)

	logger.Info("Starting vaanipay-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.StatementSpreadsheetID == "" {
		logger.Error("STATEMENT_SPREADSHEET_ID is required for the worker")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// SQLite archive holding the transactions to export
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Google Sheets statement client
	stmt, err := statement.New(context.Background(), cfg.StatementSpreadsheetID, cfg.StatementSheetName)
	if err != nil {
		logger.Error("Failed to initialize statement client", "error", err)
		os.Exit(1)
	}
	logger.Info("Statement client initialized",
		"spreadsheet_id", cfg.StatementSpreadsheetID,
		"sheet", cfg.StatementSheetName)

	// AMQP client for consuming payment events
	eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer eventsClient.Close()

	receiptWorker := worker.NewReceiptWorker(repo, stmt, cfg.SweepBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Export anything left behind by missed messages or downtime
	if err := receiptWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup check failed", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)

	// Consume payment events
	g.Go(func() error {
		return eventsClient.ConsumePaymentCompleted(gctx, func(msg *events.PaymentCompletedMessage) error {
			return receiptWorker.HandleMessage(gctx, msg)
		})
	})

	// Periodic catch-up sweep for unexported transactions
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := receiptWorker.ProcessUnexported(gctx); err != nil {
					logger.Error("Periodic sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
