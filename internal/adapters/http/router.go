// Package httpadapter exposes the review service over HTTP.
package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/MaxKamachee/openrecord/internal/core/ports"
	"github.com/MaxKamachee/openrecord/internal/core/usecase"
	"github.com/MaxKamachee/openrecord/internal/observability/metrics"
)

const serviceName = "api"

type TrafficControl struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxConcurrent  int
	AcquireTimeout time.Duration
}

type Router struct {
	documents ports.DocumentService
	analyze   ports.AnalysisStarter
	apply     ports.RedactionApplier
	pages     *usecase.PagesUseCase
	patterns  *usecase.PatternsUseCase
	store     *usecase.Store
	engine    ports.DetectionEngine

	logger  *slog.Logger
	metrics *metrics.HTTPServerMetrics
	traffic TrafficControl
}

func NewRouter(
	documents ports.DocumentService,
	analyze ports.AnalysisStarter,
	apply ports.RedactionApplier,
	pages *usecase.PagesUseCase,
	patterns *usecase.PatternsUseCase,
	store *usecase.Store,
	engine ports.DetectionEngine,
	logger *slog.Logger,
	m *metrics.HTTPServerMetrics,
	traffic TrafficControl,
) *Router {
	return &Router{
		documents: documents,
		analyze:   analyze,
		apply:     apply,
		pages:     pages,
		patterns:  patterns,
		store:     store,
		engine:    engine,
		logger:    logger,
		metrics:   m,
		traffic:   traffic,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", rt.healthz)

	mux.HandleFunc("GET /v1/documents", rt.listDocuments)
	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("DELETE /v1/documents/{id}", rt.deleteDocument)

	mux.HandleFunc("POST /v1/documents/{id}/analyze", rt.startAnalysis)
	mux.HandleFunc("GET /v1/documents/{id}/analysis", rt.getAnalysis)
	mux.HandleFunc("PATCH /v1/detections/{id}", rt.patchDetection)
	mux.HandleFunc("POST /v1/detections/approve-all", rt.approveAll)
	mux.HandleFunc("POST /v1/detections/reject-all", rt.rejectAll)

	mux.HandleFunc("GET /v1/documents/{id}/pages/{page}/segments", rt.pageSegments)
	mux.HandleFunc("GET /v1/documents/{id}/pages/{page}/image", rt.pageImage)
	mux.HandleFunc("GET /v1/documents/{id}/pages/{page}/text", rt.pageText)

	mux.HandleFunc("POST /v1/documents/{id}/redact", rt.applyRedactions)

	mux.HandleFunc("GET /v1/config", rt.getConfig)
	mux.HandleFunc("PATCH /v1/config", rt.patchConfig)
	mux.HandleFunc("GET /v1/config/patterns", rt.getPatterns)

	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.traffic.MaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.traffic.MaxConcurrent, rt.traffic.AcquireTimeout)
	}
	if rt.traffic.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if health, err := rt.engine.Health(r.Context()); err == nil {
		resp["engine"] = health
	} else {
		resp["engine_error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
