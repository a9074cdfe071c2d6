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

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/auth"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/bootstrap"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/config"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/ledger"
	linkhandlers "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/links"
	partnerhandlers "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/partners"
	paymenthandlers "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/payments"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/partners"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/payments"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load(config.Server...)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := bootstrap.AWS(ctx)
	if err != nil {
		return err
	}

	cipher, err := cfg.Cipher()
	if err != nil {
		return err
	}
	plans, err := cfg.Catalog()
	if err != nil {
		return err
	}

	store := bootstrap.Store(cfg, awsCfg)
	tokens := auth.NewTokenIssuer(cfg.SessionSecret, auth.DefaultTokenTTL)

	issuer := links.NewIssuer(store)
	directory := partners.NewDirectory(store, cipher, issuer, tokens, cfg.StarterLinkCount)
	tracker := links.NewUsageTracker(store, store, cipher, bootstrap.Notifier(cfg, awsCfg))
	reconciler := payments.NewReconciler(store, cipher)

	handler := handlers.NewApiHandler(
		linkhandlers.NewLinksHandler(issuer, links.NewValidator(store, directory), tracker, links.NewInventory(store)),
		ledger.NewLedgerHandler(store),
		paymenthandlers.NewPaymentsHandler(
			payments.NewStripeWebhook(cfg.StripeWebhookSecret, reconciler, plans),
			payments.NewStripeCheckout(cfg.StripeSecretKey, plans, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL),
		),
		partnerhandlers.NewPartnersHandler(directory),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handlers.NewRouter(handler, tokens, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.HTTPPort, "storage", cfg.StorageBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
