package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsMoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_leads_moved_total",
			Help: "Total number of lead stage moves",
		},
		[]string{"won"},
	)

	stagesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_stages_deleted_total",
			Help: "Total number of pipeline stages deleted",
		},
	)

	orphanedLeads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_orphaned_leads_total",
			Help: "Leads affected by stage deletion",
		},
		[]string{"outcome"}, // rerouted | deleted
	)

	boardRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_board_requests_total",
			Help: "Total number of board projections served",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadMove(won bool) {
	leadsMoved.WithLabelValues(strconv.FormatBool(won)).Inc()
}

func RecordStageDelete(rerouted, deleted int) {
	stagesDeleted.Inc()
	orphanedLeads.WithLabelValues("rerouted").Add(float64(rerouted))
	orphanedLeads.WithLabelValues("deleted").Add(float64(deleted))
}

func RecordBoardRequest() {
	boardRequests.Inc()
}
