package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adnan1921/radnja-tracker/internal/amqp"
	"github.com/Adnan1921/radnja-tracker/internal/auth"
	"github.com/Adnan1921/radnja-tracker/internal/backend"
	"github.com/Adnan1921/radnja-tracker/internal/catalog"
	"github.com/Adnan1921/radnja-tracker/internal/cli"
	apphttp "github.com/Adnan1921/radnja-tracker/internal/http"
	"github.com/Adnan1921/radnja-tracker/internal/ledger"
	applog "github.com/Adnan1921/radnja-tracker/internal/log"
)

func main() {
	cfg, logger, err := cli.Bootstrap(applog.ComponentApp)
	if err != nil {
		logger.Error("Startup failed", applog.FieldError, err)
		os.Exit(1)
	}

	loc, err := cfg.ShopLocation()
	if err != nil {
		logger.Error("Failed to load shop timezone", applog.FieldError, err, "timezone", cfg.ShopTimezone)
		os.Exit(1)
	}

	stores, err := backend.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer stores.Cleanup()
	logger.Info("Data backend initialized", "backend", cfg.DataBackend)

	if err := auth.Seed(context.Background(), stores.Users, auth.DefaultStaff()); err != nil {
		logger.Error("Failed to seed staff accounts", applog.FieldError, err)
		os.Exit(1)
	}

	opts := []ledger.Option{}
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Backup events disabled, AMQP unavailable", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			opts = append(opts, ledger.WithPublisher(amqpClient))
			logger.Info("Backup events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	cat := catalog.Default()
	ledgerSvc := ledger.NewService(stores.Sales, cat, loc, opts...)
	authSvc := auth.NewService(stores.Users, cfg.SessionTTL)

	srv := apphttp.NewServer(":"+cfg.Port, ledgerSvc, authSvc, cat)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
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
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting radnja server", "port", cfg.Port, "backend", cfg.DataBackend, "timezone", cfg.ShopTimezone)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
