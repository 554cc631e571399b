package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	exportTotal    *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	exportInFlight prometheus.Gauge
	queueLag       *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	exportTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openrecord",
			Subsystem: "worker",
			Name:      "report_export_total",
			Help:      "Total exported review reports by status.",
		},
		[]string{"service", "status"},
	)
	exportDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "openrecord",
			Subsystem: "worker",
			Name:      "report_export_duration_seconds",
			Help:      "Report export duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	exportInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "openrecord",
			Subsystem: "worker",
			Name:      "report_export_in_flight",
			Help:      "Number of in-flight report exports.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "openrecord",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between analysis completion and report export start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(exportTotal, exportDuration, exportInFlight, queueLag)

	return &WorkerMetrics{
		registry:       registry,
		exportTotal:    exportTotal,
		exportDuration: exportDuration,
		exportInFlight: exportInFlight,
		queueLag:       queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartExport() {
	m.exportInFlight.Inc()
}

func (m *WorkerMetrics) FinishExport(service string, duration time.Duration, err error) {
	m.exportInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.exportTotal.WithLabelValues(service, status).Inc()
	m.exportDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
