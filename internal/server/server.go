package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Houeta/employee-api/internal/config"
	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/services/employees"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions holds the optional parts of the router.
type RouterOptions struct {
	BasePath string              // BasePath prefixes the employee routes.
	Health   http.Handler        // Health serves GET /healthz when set.
	Gatherer prometheus.Gatherer // Gatherer serves GET /metrics when set.
	Metrics  *metrics.Metrics    // Metrics enables request instrumentation when set.
}

// NewRouter builds the HTTP handler tree of the service.
func NewRouter(log *slog.Logger, service employees.Service, opts RouterOptions) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, LoggingMiddleware(log))
	if opts.Metrics != nil {
		router.Use(MetricsMiddleware(opts.Metrics))
	}

	if opts.Health != nil {
		router.Handle("/healthz", opts.Health).Methods(http.MethodGet)
	}
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})).Methods(http.MethodGet)
	}

	api := router
	if opts.BasePath != "" {
		api = router.PathPrefix(opts.BasePath).Subrouter()
	}
	NewEmployeeHandler(log, service).Register(api)

	return router
}

// Run serves handler on cfg.Address until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, log *slog.Logger, cfg config.HTTPConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Starting HTTP server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	log.InfoContext(ctx, "HTTP server stopped.")
	return nil
}
