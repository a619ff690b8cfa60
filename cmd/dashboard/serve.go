package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinical-dashboard/internal/config"
	dashboardHandler "github.com/jwalitptl/clinical-dashboard/internal/handler/dashboard"
	"github.com/jwalitptl/clinical-dashboard/internal/handler/health"
	promHandler "github.com/jwalitptl/clinical-dashboard/internal/handler/prometheus"
	"github.com/jwalitptl/clinical-dashboard/internal/middleware"
	"github.com/jwalitptl/clinical-dashboard/internal/router"
	dashboardService "github.com/jwalitptl/clinical-dashboard/internal/service/dashboard"
	"github.com/jwalitptl/clinical-dashboard/internal/service/dataset"
	"github.com/jwalitptl/clinical-dashboard/pkg/logger"
	"github.com/jwalitptl/clinical-dashboard/pkg/messaging"
	"github.com/jwalitptl/clinical-dashboard/pkg/messaging/redis"
	"github.com/jwalitptl/clinical-dashboard/pkg/metrics"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(cfg.Metrics.Namespace, registry)

	params, err := cfg.Dataset.Params()
	if err != nil {
		return err
	}

	// Generate the table before accepting traffic
	store := dataset.NewStore(log, m)
	if err := store.Warm(ctx, params); err != nil {
		return err
	}

	publisher, closePublisher := newPublisher(ctx, cfg, log)
	defer closePublisher()

	svc := dashboardService.NewService(store, params, publisher, m, log)

	r := router.NewRouter(
		log,
		m,
		health.NewHandler(svc.Ready),
		promHandler.New(registry),
		router.RouterConfig{
			Mode:             cfg.Server.Mode,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
			RequestTimeout:   cfg.Server.WriteTimeout,
			MetricsEnabled:   cfg.Metrics.Enabled,
			MetricsPath:      cfg.Metrics.Path,
		},
		dashboardHandler.NewHandler(svc, middleware.DefaultCacheConfig(cfg.Cache.MaxAge)),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", srv.Addr, "records", params.Count)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error(err, "server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "server forced to shutdown")
		return err
	}

	log.Info("server exited properly")
	return nil
}

// newPublisher connects the event broker when events are enabled. A broker
// that cannot be reached degrades to dropping events rather than failing boot.
func newPublisher(ctx context.Context, cfg *config.Config, log *logger.Logger) (messaging.Publisher, func()) {
	if !cfg.Events.Enabled {
		return messaging.NopPublisher{}, func() {}
	}

	broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Events.RedisURL}, log.Zerolog())
	if err != nil {
		log.Warn("event broker unavailable, events disabled", "error", err.Error())
		return messaging.NopPublisher{}, func() {}
	}

	publisher := messaging.NewBrokerPublisher(broker, cfg.Events.Channel)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Error(err, "failed to close event broker")
		}
	}
}
