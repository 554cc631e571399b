package ports

import (
	"context"
	"io"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

// DetectionEngine is the external PDF rendering and detection service. All
// calls are network operations; implementations own their own resilience.
type DetectionEngine interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.Document, error)
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	Analyze(ctx context.Context, documentID string, cfg domain.RedactionConfig) (*domain.Analysis, error)
	Delete(ctx context.Context, documentID string) error
	ApplyRedactions(ctx context.Context, documentID string, detections []domain.Detection) ([]byte, string, error)
	ListPatterns(ctx context.Context) (*domain.PatternCatalog, error)
	Health(ctx context.Context) (*domain.EngineHealth, error)
	PageImage(ctx context.Context, documentID string, page int) ([]byte, string, error)
	PageText(ctx context.Context, documentID string, page int) (string, error)
}

// SnapshotStore persists the durable slice of review state across restarts.
type SnapshotStore interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}

// EventPublisher emits review lifecycle events. Publishing is best effort
// from the caller's perspective; failures must not fail the user action.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, ev domain.AnalysisCompletedEvent) error
	PublishRedactionsApplied(ctx context.Context, ev domain.RedactionsAppliedEvent) error
}

// EventStream is the worker-side subscription to review lifecycle events.
type EventStream interface {
	SubscribeAnalysisCompleted(ctx context.Context, handler func(context.Context, domain.AnalysisCompletedEvent) error) error
}

// ArtifactArchive stores redacted artifacts for audit.
type ArtifactArchive interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// DocumentInspector preflights an uploaded file before it is sent anywhere.
type DocumentInspector interface {
	Inspect(data []byte) (pageCount int, err error)
}

// ReportExporter materializes a human-readable review report for an analysis.
type ReportExporter interface {
	Export(ctx context.Context, doc *domain.Document, analysis *domain.Analysis) (string, error)
}

// CategoryCatalog serves locally defined category descriptions.
type CategoryCatalog interface {
	Categories() []domain.CategoryInfo
}
