// Package metrics provides Prometheus metrics for docindex
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for docindex
type Metrics struct {
	registry *prometheus.Registry

	// Repository metrics
	RepositoryOperationsTotal   *prometheus.CounterVec
	RepositoryOperationDuration *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates the metrics on a private registry so that several
// instances (one per test, for example) never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.RepositoryOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docindex_repository_operations_total",
			Help: "Total number of repository operations",
		},
		[]string{"index", "operation", "status"},
	)

	m.RepositoryOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docindex_repository_operation_duration_seconds",
			Help:    "Duration of repository operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"index", "operation"},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docindex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	return m
}

// Registry exposes the private registry so callers can gather from it.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation records one repository operation. A nil receiver is a no-op.
func (m *Metrics) RecordOperation(index, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RepositoryOperationsTotal.WithLabelValues(index, operation, status).Inc()
	m.RepositoryOperationDuration.WithLabelValues(index, operation).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts HTTP requests by route pattern and status.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
