// Package redactsvc is the HTTP client for the external PDF detection and
// rendering service. Responses are normalized into domain types at this
// boundary: every optional wire field gets its documented default exactly
// once, here.
package redactsvc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/resilience"
)

const defaultConfidence = 0.9

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

func (c *Client) Upload(ctx context.Context, filename string, body io.Reader) (*domain.Document, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload payload: %w", err)
	}

	var resp wireDocument
	err = c.execute(ctx, "engine.upload", func(callCtx context.Context) error {
		return c.postMultipart(callCtx, "/documents/upload", filename, data, &resp, "upload")
	})
	if err != nil {
		return nil, err
	}
	doc := resp.toDomain()
	return &doc, nil
}

func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var resp struct {
		Documents []wireDocument `json:"documents"`
	}
	err := c.execute(ctx, "engine.list_documents", func(callCtx context.Context) error {
		return c.getJSON(callCtx, "/documents", &resp, "list documents")
	})
	if err != nil {
		return nil, err
	}
	docs := make([]domain.Document, 0, len(resp.Documents))
	for _, w := range resp.Documents {
		docs = append(docs, w.toDomain())
	}
	return docs, nil
}

func (c *Client) Analyze(ctx context.Context, documentID string, cfg domain.RedactionConfig) (*domain.Analysis, error) {
	var resp wireAnalysis
	err := c.execute(ctx, "engine.analyze", func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/documents/"+documentID+"/analyze", cfg, &resp, "analyze")
	})
	if err != nil {
		return nil, err
	}
	analysis := resp.toDomain(documentID)
	return &analysis, nil
}

func (c *Client) Delete(ctx context.Context, documentID string) error {
	var resp struct {
		Success bool `json:"success"`
	}
	err := c.execute(ctx, "engine.delete", func(callCtx context.Context) error {
		return c.deleteJSON(callCtx, "/documents/"+documentID, &resp, "delete")
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("engine delete rejected for document %s", documentID)
	}
	return nil
}

func (c *Client) ApplyRedactions(ctx context.Context, documentID string, detections []domain.Detection) ([]byte, string, error) {
	var data []byte
	var contentType string
	err := c.execute(ctx, "engine.redact", func(callCtx context.Context) error {
		var callErr error
		data, contentType, callErr = c.postForBinary(callCtx, "/documents/"+documentID+"/redact", detections, "redact")
		return callErr
	})
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	return data, contentType, nil
}

func (c *Client) ListPatterns(ctx context.Context) (*domain.PatternCatalog, error) {
	var resp domain.PatternCatalog
	err := c.execute(ctx, "engine.patterns", func(callCtx context.Context) error {
		return c.getJSON(callCtx, "/config/patterns", &resp, "list patterns")
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Health(ctx context.Context) (*domain.EngineHealth, error) {
	var resp domain.EngineHealth
	// Health probes skip the retry/breaker wrapper: a failing probe is the
	// signal the caller wants.
	if err := c.getJSON(ctx, "/health", &resp, "health"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PageImage(ctx context.Context, documentID string, page int) ([]byte, string, error) {
	var data []byte
	var contentType string
	err := c.execute(ctx, "engine.page_image", func(callCtx context.Context) error {
		var callErr error
		data, contentType, callErr = c.getBinary(callCtx, fmt.Sprintf("/document/%s/page/%d", documentID, page), "page image")
		return callErr
	})
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "image/png"
	}
	return data, contentType, nil
}

func (c *Client) PageText(ctx context.Context, documentID string, page int) (string, error) {
	var resp struct {
		Text string `json:"text"`
	}
	err := c.execute(ctx, "engine.page_text", func(callCtx context.Context) error {
		return c.getJSON(callCtx, fmt.Sprintf("/document/%s/text/%d", documentID, page), &resp, "page text")
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return wrapTemporaryIfNeeded(operation, fn(ctx))
	}
	return wrapTemporaryIfNeeded(operation, c.executor.Execute(ctx, operation, fn, classifyEngineError))
}

type wireDocument struct {
	DocumentID string            `json:"document_id"`
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	Size       int64             `json:"size"`
	PageCount  int               `json:"page_count"`
	UploadedAt *time.Time        `json:"uploaded_at"`
	Metadata   map[string]string `json:"metadata"`
}

func (w wireDocument) toDomain() domain.Document {
	id := w.DocumentID
	if id == "" {
		id = w.ID
	}
	doc := domain.Document{
		ID:        id,
		Filename:  w.Filename,
		Size:      w.Size,
		PageCount: w.PageCount,
		Metadata:  w.Metadata,
	}
	if w.UploadedAt != nil {
		doc.UploadedAt = *w.UploadedAt
	}
	return doc
}

type wireDetection struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Category        string   `json:"category"`
	Confidence      *float64 `json:"confidence"`
	PageNumber      int      `json:"page_number"`
	StartPos        int      `json:"start_pos"`
	EndPos          int      `json:"end_pos"`
	DetectionReason string   `json:"detection_reason"`
	PatternName     string   `json:"pattern_name"`
	Context         string   `json:"context"`
	Approved        *bool    `json:"approved"`
}

func (w wireDetection) toDomain() domain.Detection {
	d := domain.Detection{
		ID:              w.ID,
		Text:            w.Text,
		Category:        domain.Category(w.Category),
		Confidence:      defaultConfidence,
		PageNumber:      w.PageNumber,
		StartPos:        w.StartPos,
		EndPos:          w.EndPos,
		DetectionReason: w.DetectionReason,
		PatternName:     w.PatternName,
		Context:         w.Context,
		Approved:        true,
	}
	if w.Confidence != nil {
		d.Confidence = *w.Confidence
	}
	if w.Approved != nil {
		d.Approved = *w.Approved
	}
	return d
}

type wireAnalysis struct {
	AnalysisID string          `json:"analysis_id"`
	Detections []wireDetection `json:"detections"`
	Statistics *struct {
		TotalDetections     int      `json:"total_detections"`
		HighConfidenceCount int      `json:"high_confidence_count"`
		CategoriesFound     []string `json:"categories_found"`
		ProcessingTime      float64  `json:"processing_time"`
	} `json:"statistics"`
	ProcessingTime float64 `json:"processing_time"`
}

func (w wireAnalysis) toDomain(documentID string) domain.Analysis {
	a := domain.Analysis{
		ID:             w.AnalysisID,
		DocumentID:     documentID,
		ProcessingTime: w.ProcessingTime,
	}
	for _, d := range w.Detections {
		a.Detections = append(a.Detections, d.toDomain())
	}
	if w.Statistics != nil {
		a.TotalDetections = w.Statistics.TotalDetections
		a.HighConfidenceCount = w.Statistics.HighConfidenceCount
		for _, c := range w.Statistics.CategoriesFound {
			a.Categories = append(a.Categories, domain.Category(c))
		}
		if a.ProcessingTime == 0 {
			a.ProcessingTime = w.Statistics.ProcessingTime
		}
	}
	return a
}
