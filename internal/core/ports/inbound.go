package ports

import (
	"context"
	"io"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

// DocumentService is the inbound contract for document lifecycle operations.
type DocumentService interface {
	Upload(ctx context.Context, filename string, size int64, body io.Reader) (*domain.Document, error)
	Delete(ctx context.Context, documentID string) error
	Refresh(ctx context.Context) ([]domain.Document, error)
}

// AnalysisStarter triggers a single-flight detection run for a document.
// A collapsed call returns (nil, true, nil): no engine call was made and no
// result was committed.
type AnalysisStarter interface {
	Start(ctx context.Context, documentID string) (*domain.Analysis, bool, error)
}

// RedactionApplier turns the approved subset of the current analysis into a
// downloadable redacted artifact.
type RedactionApplier interface {
	Apply(ctx context.Context, documentID string) (*domain.Artifact, error)
}
