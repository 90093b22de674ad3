// Package server runs the storefront process: it boots every backing
// service, serves HTTP and gRPC, and shuts both down on SIGINT or SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/storefront/app/listeners"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/payment"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// Start blocks until the process is signalled or the HTTP server fails.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	models.EncodeMoneyAsNumbers()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if uri := config.LogMongoURI(); uri != "" {
		flush, err := logger.EnableMongo(uri, config.LogMongoDB(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		}
		defer flush()
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close()

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("running without cache", "error", err)
	}
	defer cache.Close()

	storage.Connect(ctx)

	if config.StripeSecretKey() == "" {
		logger.Warn("STRIPE_SECRET_KEY is not set; card checkout will fail")
	}
	gateway := payment.NewStripe(config.StripeSecretKey(), config.StripeWebhookSecret(), nil)

	hub := ws.NewHub()
	go hub.Run(ctx)
	listeners.Register(hub)
	if listeners.RegisterConfirmation(repositories.NewUserRepository(database.DB), mail.FromConfig(), nil) {
		logger.Info("order confirmation mail enabled", "host", config.MailHost())
	}

	k, err := kernel.NewHTTPKernel(routes.Deps{DB: database.DB, Gateway: gateway, Hub: hub})
	if err != nil {
		return err
	}

	rpc, err := grpc.Start(config.GRPCPort(), database.Ping)
	if err != nil {
		return err
	}
	defer grpc.Stop(rpc)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	event.Wait()
	return nil
}
