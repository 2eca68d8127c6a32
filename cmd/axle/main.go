package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/axle-registry/axle/pkg/api"
	"github.com/axle-registry/axle/pkg/config"
	"github.com/axle-registry/axle/pkg/middleware"
	"github.com/axle-registry/axle/pkg/observability"
	"github.com/axle-registry/axle/pkg/registry"
	"github.com/axle-registry/axle/pkg/search"
	"github.com/axle-registry/axle/pkg/storage"
)

// maxRequestBody bounds schema upload size at 4 MiB
const maxRequestBody = 4 << 20

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	metricsRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(metricsRegistry)

	store, redisClient, err := buildStore(cfg, logger, metrics)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize storage")
		os.Exit(1)
	}

	reg := registry.New(store)

	index := search.NewIndex()
	if err := index.Rebuild(context.Background(), store); err != nil {
		logger.WithError(err).Error("Failed to build search index")
		os.Exit(1)
	}
	logger.WithField("schemas", index.Len()).Info("Search index built")

	metrics.SchemasTotal.Set(float64(index.Len()))
	if subjects, err := reg.ListSubjects(context.Background()); err == nil {
		metrics.SubjectsTotal.Set(float64(len(subjects)))
	}

	server := api.NewServer(reg, index, logger, metrics)
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Recovery(logger),
		observability.HTTPMetricsMiddleware(metrics),
		middleware.MaxBytes(maxRequestBody),
	)(server)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on their own port so probes stay off the API
	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(store, redisClient)
	observability.RegisterHealthRoutes(healthMux, checker)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(healthMux, metricsRegistry)
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}
	go func() {
		logger.WithField("addr", healthServer.Addr).Info("Health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.OnShutdown("store", func(ctx context.Context) error {
		return store.Close()
	})
	// the cache tier owns the redis client and closes it with the store
	if redisClient != nil && !cfg.Storage.CacheEnabled {
		shutdown.OnShutdown("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}
	shutdown.OnShutdown("health server", func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})

	go func() {
		logger.WithFields(map[string]interface{}{
			"addr":    httpServer.Addr,
			"storage": cfg.Storage.Type,
		}).Info("Schema registry listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown did not complete cleanly")
		os.Exit(1)
	}
}

// buildStore assembles the configured backend behind operation metrics,
// optionally wrapped in the LRU/redis cache tier.
func buildStore(cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics) (registry.Store, *redis.Client, error) {
	var (
		backend registry.Store
		err     error
	)
	switch cfg.Storage.Type {
	case "sqlite":
		backend, err = storage.NewSQLite(cfg.Storage.SQLitePath)
	case "postgres":
		backend, err = storage.NewPostgres(cfg.Storage.PostgresURL, cfg.Storage.PostgresMaxConns)
	default:
		backend = storage.NewMemory()
	}
	if err != nil {
		return nil, nil, err
	}
	inner := storage.NewInstrumented(backend, metrics, cfg.Storage.Type)

	var redisClient *redis.Client
	if cfg.Storage.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		redisClient = redis.NewClient(opts)
	}

	if !cfg.Storage.CacheEnabled {
		return inner, redisClient, nil
	}

	cached, err := storage.NewCached(inner, cfg.Storage.CacheSize, redisClient)
	if err != nil {
		return nil, nil, err
	}
	cached.WithMetrics(metrics)
	logger.WithFields(map[string]interface{}{
		"size":  cfg.Storage.CacheSize,
		"redis": redisClient != nil,
	}).Debug("Schema cache enabled")
	return cached, redisClient, nil
}
