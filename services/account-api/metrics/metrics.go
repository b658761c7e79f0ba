package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_api_requests_total",
		Help: "Number of handled HTTP requests",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "account_api_request_duration_seconds",
		Help:    "HTTP request latencies",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// PartialFailuresTotal counts operations where the identity provider
	// accepted a change but the profile store did not follow. Alerts hang
	// off this counter.
	PartialFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_partial_failures_total",
		Help: "Number of partial failures between identity provider and profile store",
	}, []string{"step"})
)

// RequestMetrics records counts and latencies per route.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(requestDuration.WithLabelValues(c.Request.Method, c.FullPath()))
		c.Next()
		timer.ObserveDuration()
		requestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
