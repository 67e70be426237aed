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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/strindex/internal/config"
	logpkg "github.com/kailas-cloud/strindex/internal/logger"
	"github.com/kailas-cloud/strindex/internal/metrics"
	"github.com/kailas-cloud/strindex/internal/repository/memory"
	"github.com/kailas-cloud/strindex/internal/repository/sqlite"
	chiTransport "github.com/kailas-cloud/strindex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/strindex/internal/usecase/health"
	recorduc "github.com/kailas-cloud/strindex/internal/usecase/record"
	"github.com/kailas-cloud/strindex/internal/version"
)

var (
	serveEnv    string
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env := serveEnv
		if env == "" {
			env = config.GetEnv()
		}

		var (
			cfg config.Config
			err error
		)
		if serveConfig != "" {
			cfg, err = config.LoadFile(serveConfig)
		} else {
			cfg, err = config.Load(env)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		return serve(cmd.Context(), cfg, env, logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveEnv, "env", "", "Environment name (local, dev, docker, prod); defaults to $ENV")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a config file; overrides --env lookup")
}

func serve(ctx context.Context, cfg config.Config, env string, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	instanceID := uuid.NewString()
	logger = logger.With(zap.String("instance_id", instanceID))

	logger.Info("Starting strindex API server",
		zap.String("version", version.Short()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Int("max_records", cfg.Store.MaxRecords),
		zap.Bool("auth_enabled", len(cfg.Auth.APIKeys) > 0),
	)

	// Register query metrics explicitly (no init())
	metrics.RegisterQueryMetrics()

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Closing record store failed", zap.Error(err))
		}
	}()

	recordSvc := recorduc.New(store)
	healthSvc := healthuc.New(store, instanceID).WithCapacity(cfg.Store.MaxRecords)

	server := chiTransport.NewServer(recordSvc, healthSvc, logger).
		WithMaxBodyBytes(int64(cfg.Store.MaxValueSize))

	r := newRouter(cfg, server, logger)

	addr := cfg.HTTP.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       cfg.HTTP.ReadTimeout(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// recordStore is what the services need from a store driver.
type recordStore interface {
	recorduc.Repository
	healthuc.StorePinger
}

// openStore builds the store named by cfg.Driver. The returned func releases it.
func openStore(ctx context.Context, cfg config.StoreConfig) (recordStore, func() error, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s.WithMaxRecords(cfg.MaxRecords), s.Close, nil
	case config.DriverMemory, "":
		return memory.New().WithMaxRecords(cfg.MaxRecords), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// newRouter assembles the middleware chain and mounts the API.
func newRouter(cfg config.Config, server *chiTransport.Server, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(cfg.HTTP.CORSOrigins))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)
	return r
}
