package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysisRunsTotal      *prometheus.CounterVec
	analysisCollapsedTotal *prometheus.CounterVec
	analysisDuration       *prometheus.HistogramVec
	analysisDetections     *prometheus.HistogramVec
	redactionsAppliedTotal *prometheus.CounterVec
	redactedBytes          *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openrecord",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "openrecord",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "openrecord",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	analysisRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openrecord",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total completed analysis runs by status.",
		},
		[]string{"service", "status"},
	)
	analysisCollapsedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openrecord",
			Subsystem: "analysis",
			Name:      "collapsed_total",
			Help:      "Total analyze requests collapsed into an already running analysis.",
		},
		[]string{"service"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "openrecord",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Analysis duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service"},
	)
	analysisDetections := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "openrecord",
			Subsystem: "analysis",
			Name:      "detections",
			Help:      "Distribution of detections per completed analysis.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 250, 500},
		},
		[]string{"service"},
	)
	redactionsAppliedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openrecord",
			Subsystem: "redaction",
			Name:      "applied_total",
			Help:      "Total completed redaction applications by status.",
		},
		[]string{"service", "status"},
	)
	redactedBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "openrecord",
			Subsystem: "redaction",
			Name:      "artifact_bytes",
			Help:      "Size distribution of produced redacted artifacts.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analysisRunsTotal,
		analysisCollapsedTotal,
		analysisDuration,
		analysisDetections,
		redactionsAppliedTotal,
		redactedBytes,
	)

	return &HTTPServerMetrics{
		registry:               registry,
		requestTotal:           requestTotal,
		requestDuration:        requestDuration,
		requestInFlight:        requestInFlight,
		analysisRunsTotal:      analysisRunsTotal,
		analysisCollapsedTotal: analysisCollapsedTotal,
		analysisDuration:       analysisDuration,
		analysisDetections:     analysisDetections,
		redactionsAppliedTotal: redactionsAppliedTotal,
		redactedBytes:          redactedBytes,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses identifier segments so the path label stays low
// cardinality.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		rest := strings.TrimPrefix(path, "/v1/documents/")
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return "/v1/documents/{document_id}/" + normalizeDocumentSubpath(rest[idx+1:])
		}
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/detections/"):
		return "/v1/detections/{detection_id}"
	default:
		return path
	}
}

func normalizeDocumentSubpath(rest string) string {
	if strings.HasPrefix(rest, "pages/") {
		parts := strings.SplitN(strings.TrimPrefix(rest, "pages/"), "/", 2)
		if len(parts) == 2 {
			return "pages/{page}/" + parts[1]
		}
		return "pages/{page}"
	}
	return rest
}

func (m *HTTPServerMetrics) RecordAnalysisRun(service string, detections int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.analysisRunsTotal.WithLabelValues(service, status).Inc()
	if err == nil {
		m.analysisDuration.WithLabelValues(service).Observe(duration.Seconds())
		m.analysisDetections.WithLabelValues(service).Observe(float64(detections))
	}
}

func (m *HTTPServerMetrics) RecordAnalysisCollapsed(service string) {
	m.analysisCollapsedTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordRedactionApplied(service string, artifactBytes int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.redactionsAppliedTotal.WithLabelValues(service, status).Inc()
	if err == nil && artifactBytes > 0 {
		m.redactedBytes.WithLabelValues(service).Observe(float64(artifactBytes))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
