package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osclient/internal/config"
	"github.com/kailas-cloud/osclient/internal/docstore"
	redisstore "github.com/kailas-cloud/osclient/internal/docstore/redis"
	"github.com/kailas-cloud/osclient/internal/fakeserver"
	"github.com/kailas-cloud/osclient/internal/metrics"
	"github.com/kailas-cloud/osclient/internal/version"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port   int
		driver string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory search server",
		Long: `Serve the document and search endpoints over a memory or Redis
backed document store, with Prometheus metrics on /metrics. The server
stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			if driver != "" {
				a.cfg.Storage.Driver = driver
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.Port))
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return serve(ctx, a.cfg, a.logger, lis)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides server.port)")
	cmd.Flags().StringVar(&driver, "storage", "", "Storage driver: memory or redis (overrides storage.driver)")
	return cmd
}

// openStore builds the configured document store and waits for it.
func openStore(ctx context.Context, cfg config.StorageConfig) (docstore.Store, error) {
	var store docstore.Store
	switch cfg.Driver {
	case config.DriverMemory:
		store = docstore.NewMemory()
	case config.DriverRedis:
		s, err := redisstore.NewStore(redisstore.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("storage not ready: %w", err)
	}
	return store, nil
}

// serve runs the fake server on lis until ctx is done.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger, lis net.Listener) error {
	logger.Info("Starting osclient fake server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("addr", lis.Addr().String()),
		zap.String("storage", cfg.Storage.Driver),
	)

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		_ = lis.Close()
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		_ = lis.Close()
		return fmt.Errorf("register metrics: %w", err)
	}

	srv := &http.Server{
		Handler:      fakeserver.NewServer(store, m, logger).Routes(reg),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
