package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbOperationDuration *prometheus.HistogramVec

	authAttemptsCounter prometheus.Counter
	authSuccessCounter  prometheus.Counter
	authFailuresCounter prometheus.Counter
)

// Init registers all collectors under the configured prefix.
func Init(prefix string) {
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	dbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	authAttemptsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_attempts_total",
		Help: "Total number of authentication attempts",
	})
	authSuccessCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_success_total",
		Help: "Total number of successful authentications",
	})
	authFailuresCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_failures_total",
		Help: "Total number of failed authentications",
	})
}

// TrackDBOperation records the duration of a database operation:
//
//	defer metrics.TrackDBOperation("create_task")(time.Now())
func TrackDBOperation(operation string) func(start time.Time) {
	return func(start time.Time) {
		if dbOperationDuration != nil {
			dbOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		}
	}
}

func RecordAuthAttempt() {
	if authAttemptsCounter != nil {
		authAttemptsCounter.Inc()
	}
}

func RecordAuthSuccess() {
	if authSuccessCounter != nil {
		authSuccessCounter.Inc()
	}
}

func RecordAuthFailure() {
	if authFailuresCounter != nil {
		authFailuresCounter.Inc()
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latencies for every route.
func Middleware() drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: c.Response, status: http.StatusOK}
		c.Response = sw

		c.Next()

		if httpRequestsTotal == nil {
			return
		}

		method := c.Request.Method
		path := c.Request.URL.Path
		status := strconv.Itoa(sw.status)

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition endpoint.
func Handler() drift.HandlerFunc {
	h := promhttp.Handler()
	return func(c *drift.Context) {
		h.ServeHTTP(c.Response, c.Request)
	}
}
