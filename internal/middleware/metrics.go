package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localprice_http_requests_total",
			Help: "Total HTTP requests handled, by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localprice_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PriceSubmissionsTotal counts price submissions by source (api, kobo).
	PriceSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localprice_price_submissions_total",
			Help: "Price submissions received, by source.",
		},
		[]string{"source"},
	)

	// ModerationDecisionsTotal counts moderation outcomes (validated, rejected).
	ModerationDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localprice_moderation_decisions_total",
			Help: "Moderation decisions taken, by outcome.",
		},
		[]string{"outcome"},
	)
)

// Metrics records request counts and latencies per route template.
// Unmatched routes are bucketed under their raw method to keep cardinality low.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, route, status).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
