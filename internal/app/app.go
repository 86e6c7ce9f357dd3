// Package app assembles the service: configuration, logging, storage,
// services, HTTP transport, and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ezbjus/bariwikiemerg/internal/adapter/postgres"
	adminrepo "github.com/ezbjus/bariwikiemerg/internal/adapter/postgres/admin"
	termrepo "github.com/ezbjus/bariwikiemerg/internal/adapter/postgres/term"
	"github.com/ezbjus/bariwikiemerg/internal/auth"
	"github.com/ezbjus/bariwikiemerg/internal/config"
	"github.com/ezbjus/bariwikiemerg/internal/service/adminauth"
	"github.com/ezbjus/bariwikiemerg/internal/service/generator"
	"github.com/ezbjus/bariwikiemerg/internal/service/glossary"
	"github.com/ezbjus/bariwikiemerg/internal/service/importer"
	"github.com/ezbjus/bariwikiemerg/internal/transport/middleware"
	"github.com/ezbjus/bariwikiemerg/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, runs migrations, bootstraps the admin account, wires the
// services and REST transport, and serves until the context is cancelled
// or SIGINT/SIGTERM arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting bariwiki api",
		slog.String("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)),
		slog.Bool("generation_enabled", cfg.Generation.GenerationEnabled()),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	terms := termrepo.New(pool)
	admins := adminrepo.New(pool)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)

	authSvc := adminauth.NewService(logger, admins, tokens, cfg.Auth)
	if err := authSvc.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	glossarySvc := glossary.NewService(logger, terms)
	importSvc := importer.NewService(logger, terms)

	var gen generator.ContentGenerator
	if cfg.Generation.GenerationEnabled() {
		gen = generator.NewAnthropicGenerator(cfg.Generation)
	} else {
		logger.Warn("no generation credential configured, AI endpoints disabled")
	}
	genSvc := generator.NewService(logger, terms, gen, cfg.Glossary.HintLimit)

	router := rest.NewRouter(rest.RouterDeps{
		Terms:        rest.NewTermsHandler(glossarySvc, logger),
		Admin:        rest.NewAdminHandler(glossarySvc, importSvc, genSvc, logger),
		Auth:         rest.NewAuthHandler(authSvc, logger),
		Health:       rest.NewHealthHandler(pool),
		SEO:          rest.NewSEOHandler(glossarySvc, cfg.Site.BaseURL, logger),
		RequireAdmin: middleware.RequireAdmin(authSvc),
		Global: middleware.Chain(
			middleware.RequestID,
			middleware.Recovery(logger),
			middleware.Logger(logger),
			middleware.CORS(cfg.CORS),
		),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
