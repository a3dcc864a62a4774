package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vaanipay/internal/assistant"
	"vaanipay/internal/auth"
	"vaanipay/internal/config"
	"vaanipay/internal/events"
	apphttp "vaanipay/internal/http"
	"vaanipay/internal/log"
	"vaanipay/internal/payment"
	"vaanipay/internal/session"
	"vaanipay/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sessCfg := session.DefaultConfig()
	sessCfg.Delays = payment.Delays{
		ProcessingBase:   cfg.PayBaseDelay,
		ProcessingJitter: cfg.PayJitter,
		SuccessHold:      cfg.PaySuccessHold,
	}

	// Optional SQLite archive for settled payments
	if cfg.ArchiveBackend == "sqlite" {
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		sessCfg.Archiver = repo
		logger.Info("SQLite archive enabled", "path", cfg.SQLiteDBPath)
	} else {
		logger.Info("Archive disabled - ledger is session-only")
	}

	// Optional AMQP publisher for payment events
	if cfg.AMQPURL != "" {
		eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		sessCfg.Publisher = eventsClient
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP publishing disabled - no AMQP_URL provided")
	}

	sess := session.New(sessCfg)
	defer sess.Close()

	srv := apphttp.NewServer(":"+cfg.Port, sess, assistant.New(cfg.AssistantDelay), auth.Demo{})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting vaanipay server", "port", cfg.Port, "archive", cfg.ArchiveBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
