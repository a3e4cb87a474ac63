package manage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"inkwell/app/assets"
	"inkwell/app/cache"
	"inkwell/app/config"
	"inkwell/app/logger"
	"inkwell/app/metrics"
	"inkwell/app/middleware"
	"inkwell/app/routes"
	"inkwell/app/services"
	"inkwell/app/store"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// serve runs the HTTP API until ctx is cancelled.
func (c *CLI) serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.NewSugar(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	m, metricsHandler, err := metrics.Setup("inkwell")
	if err != nil {
		return fmt.Errorf("failed to set up metrics: %w", err)
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)

	ch, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to connect cache: %w", err)
	}
	defer func() { _ = ch.Close() }()

	reg := services.NewRegistry(st, ch, assets.NewLogStore(log), cfg, m, log)
	if err := services.Seed(ctx, st.Roles, reg.Users, cfg.Users, log); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	handler := routes.SetupRoutes(reg, routes.Options{
		Config:         cfg,
		Middleware:     middleware.NewMiddleware(log, m),
		MetricsHandler: metricsHandler,
		Logger:         log,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("Starting inkwell API", "addr", cfg.HTTPAddr, "env", cfg.Env, "driver", cfg.Database.Driver)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Infow("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
		_ = server.Close()
		return err
	}
	log.Infow("Server stopped")
	return nil
}

// seed creates the default roles and the configured admin account.
func (c *CLI) seed(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.NewSugar(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)

	users := services.NewUserService(st.Users, st.Roles, assets.NewLogStore(log), cfg.Users.DefaultAvatar, log)
	if err := services.Seed(ctx, st.Roles, users, cfg.Users, log); err != nil {
		return err
	}
	fmt.Fprintln(c.Out, "Seed completed successfully")
	return nil
}

// migrate creates the storage indexes.
func (c *CLI) migrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.NewSugar(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)

	fmt.Fprintln(c.Out, "Migrations applied successfully")
	return nil
}

// openStore connects the configured backend and applies its indexes.
func openStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*store.Store, error) {
	st, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		closeStore(st, log)
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store, log *zap.SugaredLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := st.Close(ctx); err != nil {
		log.Warnw("failed to close store", "error", err)
	}
}
