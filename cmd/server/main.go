package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/customer"
	"github.com/galaxybank/ledger-core/internal/adapter/http/controller"
	"github.com/galaxybank/ledger-core/internal/adapter/http/middleware"
	"github.com/galaxybank/ledger-core/internal/adapter/http/router"
	"github.com/galaxybank/ledger-core/internal/adapter/repository/postgres"
	"github.com/galaxybank/ledger-core/internal/config"
	"github.com/galaxybank/ledger-core/internal/logger"
	"github.com/galaxybank/ledger-core/internal/observability"
	"github.com/galaxybank/ledger-core/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded", logger.Fields{
		"port":          cfg.Port,
		"logLevel":      cfg.LogLevel,
		"ceiling":       cfg.SuspiciousCeiling.StringFixed(),
		"ceilingPolicy": cfg.CeilingPolicy,
	})

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(startupCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		logger.Error("run migrations failed", err, nil)
		os.Exit(1)
	}

	db, err := postgres.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("open database failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	metrics := observability.NewMetrics()

	ledgerStore := postgres.NewLedgerStore(db)
	accountRepo := postgres.NewAccountRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)

	var directory services.CustomerDirectory
	if cfg.CustomerDirectoryURL != "" {
		directory = customer.NewDirectoryClient(cfg.CustomerDirectoryURL)
	}

	accountService := services.NewAccountService(accountRepo, ledgerRepo, directory)
	transactionService := services.NewTransactionService(ledgerStore, cfg.SuspiciousCeiling, cfg.CeilingPolicy, metrics)
	billingService := services.NewBillingService(accountRepo, invoiceRepo)
	reportingService := services.NewReportingService(accountRepo, ledgerRepo, cfg.SuspiciousCeiling)

	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey, cfg.ChannelKeyHash)
	mux := router.New(
		metrics.Registry,
		authMiddleware,
		controller.NewAccountController(accountService),
		controller.NewTransactionController(transactionService),
		controller.NewBillingController(billingService, transactionService),
		controller.NewReportingController(reportingService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{"addr": server.Addr})
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", err, nil)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutdown signal received", logger.Fields{"signal": sig.String()})
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown failed", err, nil)
		}
	}
}
