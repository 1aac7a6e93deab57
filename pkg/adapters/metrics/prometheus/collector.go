package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records HTTP and database health metrics using Prometheus
type Collector struct {
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	databaseUp           prometheus.Gauge
	databaseChecks       *prometheus.CounterVec
	databasePingDuration prometheus.Histogram
}

// NewCollector creates a new Prometheus metrics collector registered on reg.
// A nil reg registers on the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "booking_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		databaseUp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "booking_database_up",
				Help: "Whether the last database ping succeeded (1) or failed (0)",
			},
		),
		databaseChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_database_checks_total",
				Help: "Total number of database health checks",
			},
			[]string{"result"},
		),
		databasePingDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "booking_database_ping_duration_seconds",
				Help:    "Database ping duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		),
	}
}

// ObserveHTTPRequest records a served HTTP request
func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDatabaseCheck records the outcome of a database ping
func (c *Collector) RecordDatabaseCheck(up bool, duration time.Duration) {
	result := "failure"
	if up {
		result = "success"
		c.databaseUp.Set(1)
	} else {
		c.databaseUp.Set(0)
	}

	c.databaseChecks.WithLabelValues(result).Inc()
	c.databasePingDuration.Observe(duration.Seconds())
}
