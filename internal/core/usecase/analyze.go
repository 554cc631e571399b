package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/core/ports"
)

// AnalyzeUseCase triggers detection runs with single-flight collapsing.
// Detection calls take seconds and are naturally triggered by several
// surfaces at once; without the guard, concurrent runs would race to
// overwrite the current analysis with last-write-wins ordering. The guard
// makes "one logical analysis per user action" an explicit invariant.
type AnalyzeUseCase struct {
	store  *Store
	engine ports.DetectionEngine
	events ports.EventPublisher
	logger *slog.Logger

	inFlight atomic.Bool
}

func NewAnalyzeUseCase(store *Store, engine ports.DetectionEngine, events ports.EventPublisher, logger *slog.Logger) *AnalyzeUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeUseCase{
		store:  store,
		engine: engine,
		events: events,
		logger: logger,
	}
}

// Start runs one detection pass for the document and commits the result to
// the store exactly once. When a run is already in flight the call collapses:
// it returns (nil, true, nil) without touching the engine or the store. This
// is deliberate request coalescing, not an error; callers must not assume a
// result was produced.
func (uc *AnalyzeUseCase) Start(ctx context.Context, documentID string) (*domain.Analysis, bool, error) {
	doc, ok := uc.store.Document(documentID)
	if !ok {
		return nil, false, domain.WrapError(domain.ErrDocumentNotFound, "start analysis", fmt.Errorf("document %q", documentID))
	}

	if !uc.inFlight.CompareAndSwap(false, true) {
		uc.logger.Info("analysis_collapsed", "document_id", documentID)
		return nil, true, nil
	}
	defer uc.inFlight.Store(false)

	uc.store.SetLoading(true)
	uc.store.SetError("")
	defer uc.store.SetLoading(false)

	started := time.Now()
	analysis, err := uc.engine.Analyze(ctx, documentID, uc.store.RedactionConfig())
	if err != nil {
		uc.store.SetError(err.Error())
		return nil, false, fmt.Errorf("analyze document: %w", err)
	}

	normalizeAnalysis(analysis, documentID, time.Since(started))

	committed, err := uc.store.AddAnalysis(ctx, *analysis)
	if err != nil {
		uc.store.SetError(err.Error())
		return nil, false, fmt.Errorf("commit analysis: %w", err)
	}
	uc.store.SetCurrentDocument(&doc)
	uc.store.SetCurrentAnalysis(&committed)

	uc.publishCompleted(ctx, committed)

	uc.logger.Info("analysis_completed",
		"document_id", documentID,
		"analysis_id", committed.ID,
		"detections", committed.TotalDetections,
		"high_confidence", committed.HighConfidenceCount,
		"processing_time_s", committed.ProcessingTime,
	)
	return &committed, false, nil
}

// InFlight reports whether a detection run is currently executing.
func (uc *AnalyzeUseCase) InFlight() bool {
	return uc.inFlight.Load()
}

// normalizeAnalysis applies the documented defaults once, at the ingest
// boundary: a fresh analysis id when the engine omitted one, the owning
// document id, detection id/reason fills, measured processing time when the
// engine reported none, and recomputed summary stats.
func normalizeAnalysis(a *domain.Analysis, documentID string, elapsed time.Duration) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.DocumentID = documentID
	a.EnsureDetectionIDs()
	for i := range a.Detections {
		if a.Detections[i].DetectionReason == "" {
			a.Detections[i].DetectionReason = domain.DefaultDetectionReason
		}
	}
	if a.ProcessingTime == 0 {
		a.ProcessingTime = elapsed.Seconds()
	}
	a.RecomputeStats()
}

func (uc *AnalyzeUseCase) publishCompleted(ctx context.Context, a domain.Analysis) {
	if uc.events == nil {
		return
	}
	ev := domain.AnalysisCompletedEvent{
		AnalysisID:      a.ID,
		DocumentID:      a.DocumentID,
		TotalDetections: a.TotalDetections,
		CompletedAt:     time.Now().UTC(),
	}
	if err := uc.events.PublishAnalysisCompleted(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.Warn("publish_analysis_completed_failed", "analysis_id", a.ID, "error", err)
	}
}
