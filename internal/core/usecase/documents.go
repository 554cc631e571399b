package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/core/ports"
)

// DocumentsUseCase owns the document lifecycle: preflighted upload to the
// engine, registration in the store, and deletion from both.
type DocumentsUseCase struct {
	store          *Store
	engine         ports.DetectionEngine
	inspector      ports.DocumentInspector
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewDocumentsUseCase(store *Store, engine ports.DetectionEngine, inspector ports.DocumentInspector, maxUploadBytes int64, logger *slog.Logger) *DocumentsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentsUseCase{
		store:          store,
		engine:         engine,
		inspector:      inspector,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload validates the file locally (extension, size, PDF structure), sends
// it to the engine, and registers the returned document in the store. The
// preflight page count backfills the document when the engine omits one.
func (uc *DocumentsUseCase) Upload(ctx context.Context, filename string, size int64, body io.Reader) (*domain.Document, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", fmt.Errorf("only PDF files are supported: %q", filename))
	}
	if uc.maxUploadBytes > 0 && size > uc.maxUploadBytes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", fmt.Errorf("file exceeds %d bytes", uc.maxUploadBytes))
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("empty file"))
	}
	if uc.maxUploadBytes > 0 && int64(len(data)) > uc.maxUploadBytes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", fmt.Errorf("file exceeds %d bytes", uc.maxUploadBytes))
	}

	pageCount := 0
	if uc.inspector != nil {
		pageCount, err = uc.inspector.Inspect(data)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", err)
		}
	}

	doc, err := uc.engine.Upload(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("engine upload: %w", err)
	}
	if doc.Size == 0 {
		doc.Size = int64(len(data))
	}
	if doc.PageCount == 0 {
		doc.PageCount = pageCount
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	if err := uc.store.AddDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}

	uc.logger.Info("document_uploaded",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"bytes", doc.Size,
		"pages", doc.PageCount,
	)
	return doc, nil
}

// Delete removes the document from the engine and then from the store.
func (uc *DocumentsUseCase) Delete(ctx context.Context, documentID string) error {
	if _, ok := uc.store.Document(documentID); !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", fmt.Errorf("document %q", documentID))
	}
	if err := uc.engine.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("engine delete: %w", err)
	}
	if err := uc.store.RemoveDocument(ctx, documentID); err != nil {
		return fmt.Errorf("remove document: %w", err)
	}
	uc.logger.Info("document_deleted", "document_id", documentID)
	return nil
}

// Refresh merges the engine's document list into the store, preserving
// locally known metadata.
func (uc *DocumentsUseCase) Refresh(ctx context.Context) ([]domain.Document, error) {
	docs, err := uc.engine.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	for _, remote := range docs {
		merged := remote
		if local, ok := uc.store.Document(remote.ID); ok {
			local.MergeMetadata(remote.Metadata)
			if merged.PageCount == 0 {
				merged.PageCount = local.PageCount
			}
			merged.Metadata = local.Metadata
		}
		if err := uc.store.AddDocument(ctx, merged); err != nil {
			return nil, fmt.Errorf("merge document %s: %w", remote.ID, err)
		}
	}
	return uc.store.Documents(), nil
}
