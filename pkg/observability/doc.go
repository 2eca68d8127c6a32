// Package observability provides structured logging, Prometheus
// metrics, health checks and graceful shutdown for the registry.
//
// # Structured Logging
//
// Create a logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("subject", name).Info("version registered")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.RegistrationsTotal.WithLabelValues("AVRO", "created").Inc()
//
// # Health Checks
//
// Configure a health checker over the backing store:
//
//	checker := observability.NewHealthChecker(store, redisClient)
//	status := checker.Check(ctx)
//
// # Related Packages
//
//   - pkg/config: observability configuration
//   - pkg/middleware: request logging middleware
package observability
