package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/core/ports"
)

// ApplyUseCase turns the approved subset of the current analysis into a
// redacted artifact. An empty approved set is rejected locally before any
// network call; the store is never mutated by an apply, successful or not.
type ApplyUseCase struct {
	store   *Store
	engine  ports.DetectionEngine
	archive ports.ArtifactArchive
	events  ports.EventPublisher
	logger  *slog.Logger
}

func NewApplyUseCase(store *Store, engine ports.DetectionEngine, archive ports.ArtifactArchive, events ports.EventPublisher, logger *slog.Logger) *ApplyUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplyUseCase{
		store:   store,
		engine:  engine,
		archive: archive,
		events:  events,
		logger:  logger,
	}
}

// Apply requests a redacted artifact for the approved detections of the
// current analysis. The artifact is named redacted_<original filename>. A
// copy is archived and an applied event published, both best effort.
func (uc *ApplyUseCase) Apply(ctx context.Context, documentID string) (*domain.Artifact, error) {
	doc, ok := uc.store.Document(documentID)
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "apply redactions", fmt.Errorf("document %q", documentID))
	}

	analysis := uc.store.CurrentAnalysis()
	if analysis == nil || analysis.DocumentID != documentID {
		return nil, domain.WrapError(domain.ErrAnalysisNotFound, "apply redactions", fmt.Errorf("no current analysis for document %q", documentID))
	}

	approved := analysis.ApprovedDetections()
	if len(approved) == 0 {
		return nil, domain.WrapError(domain.ErrNoApprovedDetections, "apply redactions", errors.New("approved set is empty"))
	}
	for i := range approved {
		fillWireDefaults(&approved[i])
	}

	data, contentType, err := uc.engine.ApplyRedactions(ctx, documentID, approved)
	if err != nil {
		return nil, fmt.Errorf("apply redactions: %w", err)
	}

	artifact := &domain.Artifact{
		Filename:    "redacted_" + doc.Filename,
		ContentType: contentType,
		Data:        data,
	}

	archiveKey := uc.archiveArtifact(ctx, documentID, artifact)
	uc.publishApplied(ctx, documentID, analysis.ID, len(approved), archiveKey)

	uc.logger.Info("redactions_applied",
		"document_id", documentID,
		"analysis_id", analysis.ID,
		"applied", len(approved),
		"artifact_bytes", len(artifact.Data),
	)
	return artifact, nil
}

// fillWireDefaults populates optional fields so the wire payload is always
// complete. Detections reaching this point already carry non-empty ids.
func fillWireDefaults(d *domain.Detection) {
	if d.DetectionReason == "" {
		d.DetectionReason = domain.DefaultDetectionReason
	}
	if d.PatternName == "" {
		d.PatternName = "unknown"
	}
	if d.Context == "" {
		d.Context = d.Text
	}
}

func (uc *ApplyUseCase) archiveArtifact(ctx context.Context, documentID string, artifact *domain.Artifact) string {
	if uc.archive == nil {
		return ""
	}
	key := fmt.Sprintf("%s_%s", documentID, artifact.Filename)
	if err := uc.archive.Save(ctx, key, bytes.NewReader(artifact.Data)); err != nil {
		uc.logger.Warn("archive_artifact_failed", "document_id", documentID, "key", key, "error", err)
		return ""
	}
	return key
}

func (uc *ApplyUseCase) publishApplied(ctx context.Context, documentID, analysisID string, count int, archiveKey string) {
	if uc.events == nil {
		return
	}
	ev := domain.RedactionsAppliedEvent{
		DocumentID:   documentID,
		AnalysisID:   analysisID,
		AppliedCount: count,
		ArchiveKey:   archiveKey,
		AppliedAt:    time.Now().UTC(),
	}
	if err := uc.events.PublishRedactionsApplied(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.Warn("publish_redactions_applied_failed", "document_id", documentID, "error", err)
	}
}
