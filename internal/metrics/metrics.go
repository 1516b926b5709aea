package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		},
		[]string{"method", "endpoint"},
	)

	// Database metrics
	dbConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	dbConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Business metrics
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status"}, // success, failure
	)

	signerTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signer_transitions_total",
			Help: "Total number of signer lifecycle transitions",
		},
		[]string{"operation", "status"}, // accept/sign/revoke/set_amount x success/failure
	)

	sweepRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signer_sweep_runs_total",
			Help: "Total number of expiry sweep runs",
		},
	)

	sweepExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signer_sweep_expired_total",
			Help: "Total number of signers expired by sweeps",
		},
	)

	remindersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loi_reminders_total",
			Help: "Total number of LOI reminders recorded",
		},
	)

	auditInsertFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_insert_failures_total",
			Help: "Total number of swallowed audit-event insert failures",
		},
	)
)

// PrometheusMiddleware creates a middleware that records Prometheus metrics
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip metrics endpoint itself
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		// Wrap response writer to capture status code and size
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, statusCode).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, statusCode).Observe(duration)
		httpResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(wrapped.size))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// RecordAuthAttempt records an authentication attempt
func RecordAuthAttempt(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	authAttemptsTotal.WithLabelValues(status).Inc()
}

// RecordSignerTransition records a signer lifecycle operation
func RecordSignerTransition(operation string, success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	signerTransitionsTotal.WithLabelValues(operation, status).Inc()
}

// RecordSweep records one expiry sweep run and how many signers it expired
func RecordSweep(expiredCount int) {
	sweepRunsTotal.Inc()
	sweepExpiredTotal.Add(float64(expiredCount))
}

// RecordReminder records one LOI reminder
func RecordReminder() {
	remindersTotal.Inc()
}

// RecordAuditInsertFailure records a swallowed audit-event insert failure
func RecordAuditInsertFailure() {
	auditInsertFailuresTotal.Inc()
}

// UpdateDBConnections updates database connection metrics
func UpdateDBConnections(active, idle int) {
	dbConnectionsActive.Set(float64(active))
	dbConnectionsIdle.Set(float64(idle))
}
