package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/core/ports"
)

// PagesUseCase serves page images and page text with per-page memoization.
// The cache lives for the current document only: requesting a page of a
// different document drops every cached entry. Resolved fetches are never
// re-issued.
type PagesUseCase struct {
	store  *Store
	engine ports.DetectionEngine

	mu         sync.Mutex
	documentID string
	images     map[int]cachedImage
	texts      map[int]string
}

type cachedImage struct {
	data        []byte
	contentType string
}

func NewPagesUseCase(store *Store, engine ports.DetectionEngine) *PagesUseCase {
	return &PagesUseCase{
		store:  store,
		engine: engine,
		images: make(map[int]cachedImage),
		texts:  make(map[int]string),
	}
}

// Image returns the rendered page image, fetching it at most once per page
// for the current document.
func (uc *PagesUseCase) Image(ctx context.Context, documentID string, page int) ([]byte, string, error) {
	if _, ok := uc.store.Document(documentID); !ok {
		return nil, "", domain.WrapError(domain.ErrDocumentNotFound, "page image", fmt.Errorf("document %q", documentID))
	}

	uc.mu.Lock()
	uc.switchDocumentLocked(documentID)
	if img, ok := uc.images[page]; ok {
		uc.mu.Unlock()
		return img.data, img.contentType, nil
	}
	uc.mu.Unlock()

	data, contentType, err := uc.engine.PageImage(ctx, documentID, page)
	if err != nil {
		return nil, "", fmt.Errorf("fetch page image: %w", err)
	}

	uc.mu.Lock()
	if uc.documentID == documentID {
		uc.images[page] = cachedImage{data: data, contentType: contentType}
	}
	uc.mu.Unlock()
	return data, contentType, nil
}

// Text returns the page's plain text, memoized like Image.
func (uc *PagesUseCase) Text(ctx context.Context, documentID string, page int) (string, error) {
	if _, ok := uc.store.Document(documentID); !ok {
		return "", domain.WrapError(domain.ErrDocumentNotFound, "page text", fmt.Errorf("document %q", documentID))
	}

	uc.mu.Lock()
	uc.switchDocumentLocked(documentID)
	if text, ok := uc.texts[page]; ok {
		uc.mu.Unlock()
		return text, nil
	}
	uc.mu.Unlock()

	text, err := uc.engine.PageText(ctx, documentID, page)
	if err != nil {
		return "", fmt.Errorf("fetch page text: %w", err)
	}

	uc.mu.Lock()
	if uc.documentID == documentID {
		uc.texts[page] = text
	}
	uc.mu.Unlock()
	return text, nil
}

// Segments joins the page's text with the current analysis detections for
// that page and returns the highlight segmentation.
func (uc *PagesUseCase) Segments(ctx context.Context, documentID string, page int) ([]domain.Segment, error) {
	text, err := uc.Text(ctx, documentID, page)
	if err != nil {
		return nil, err
	}

	var detections []domain.Detection
	if analysis := uc.store.CurrentAnalysis(); analysis != nil && analysis.DocumentID == documentID {
		detections = analysis.DetectionsForPage(page)
	}
	return SegmentPageText(text, detections), nil
}

func (uc *PagesUseCase) switchDocumentLocked(documentID string) {
	if uc.documentID == documentID {
		return
	}
	uc.documentID = documentID
	uc.images = make(map[int]cachedImage)
	uc.texts = make(map[int]string)
}
