package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"imagebind/internal/events"
	"imagebind/internal/fetcher"
	"imagebind/pkg/types"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagebind",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imagebind",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "imagebind",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"path"},
	)

	backpressureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagebind",
			Subsystem: "http",
			Name:      "backpressure_total",
			Help:      "Total download requests rejected (409)",
		},
		[]string{"reason"},
	)

	stateBusy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "imagebind",
			Subsystem: "state",
			Name:      "busy",
			Help:      "1 while a download is in flight",
		},
	)

	stateArtifactBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "imagebind",
			Subsystem: "state",
			Name:      "artifact_bytes",
			Help:      "Size of the most recent artifact",
		},
	)

	stateErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagebind",
			Subsystem: "state",
			Name:      "errors_total",
			Help:      "Download errors published to the store, by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, backpressureTotal,
		stateBusy, stateArtifactBytes, stateErrorsTotal)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		httpInflight.WithLabelValues(r.URL.Path).Inc()
		defer httpInflight.WithLabelValues(r.URL.Path).Dec()
		next.ServeHTTP(sr, r)
		// the route pattern is only known once chi has routed the request
		path := routePatternOrPath(r)
		statusLabel := strconv.Itoa(sr.status)
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(time.Since(start).Seconds())
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// IncrementBackpressure is called when a download request is rejected.
func IncrementBackpressure(reason string) {
	if reason == "" {
		reason = "unspecified"
	}
	backpressureTotal.WithLabelValues(reason).Inc()
}

// StateMetrics returns a declaration that mirrors the view model's store into
// Prometheus gauges and counters. Bind it through the builder like any other
// declaration.
func StateMetrics() *events.BackgroundImage {
	return events.NewBackgroundImage().
		Named("StateMetrics").
		OnBusyChanged(func(busy bool) {
			if busy {
				stateBusy.Set(1)
				return
			}
			stateBusy.Set(0)
		}).
		OnArtifactReady(func(a *types.Artifact) {
			stateArtifactBytes.Set(float64(a.Size))
		}).
		OnError(func(err error) {
			stateErrorsTotal.WithLabelValues(fetcher.KindOf(err).String()).Inc()
		})
}
