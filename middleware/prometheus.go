package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session lookup results recorded by RecordSessionLookup.
const (
	LookupValid   = "valid"
	LookupExpired = "expired"
	LookupUnknown = "unknown"
	LookupInvalid = "invalid"
	LookupError   = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "path", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	sessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Total number of sessions created",
		},
	)

	sessionLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_lookups_total",
			Help: "Total number of session lookups by result",
		},
		[]string{"result"},
	)
)

// PrometheusMiddleware records request count and latency per matched route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordSessionCreated increments the created-sessions counter.
func RecordSessionCreated() {
	sessionsCreatedTotal.Inc()
}

// RecordSessionLookup counts one session lookup with the given result label.
func RecordSessionLookup(result string) {
	sessionLookupsTotal.WithLabelValues(result).Inc()
}
