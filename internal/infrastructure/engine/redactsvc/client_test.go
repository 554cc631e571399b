package redactsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, nil)
}

func TestUploadSendsMultipartAndDecodesDocument(t *testing.T) {
	var gotPath, gotFilename string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		gotFilename = header.Filename
		json.NewEncoder(w).Encode(map[string]any{
			"document_id": "doc-1",
			"filename":    "report.pdf",
			"size":        2048,
			"page_count":  3,
		})
	})

	doc, err := client.Upload(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4 payload"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if gotPath != "/documents/upload" {
		t.Errorf("path = %q, want /documents/upload", gotPath)
	}
	if gotFilename != "report.pdf" {
		t.Errorf("form filename = %q, want report.pdf", gotFilename)
	}
	if doc.ID != "doc-1" || doc.PageCount != 3 || doc.Size != 2048 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestAnalyzeDefaultsOptionalDetectionFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/doc-1/analyze" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var cfg domain.RedactionConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			t.Fatalf("decode config: %v", err)
		}
		if cfg.DocumentType != "general" {
			t.Errorf("config document type = %q", cfg.DocumentType)
		}
		w.Write([]byte(`{
			"analysis_id": "an-1",
			"detections": [
				{"id": "d1", "text": "John Smith", "category": "privacy_interest", "page_number": 1},
				{"id": "d2", "text": "SSN 123", "category": "privacy_interest", "confidence": 0.4, "approved": false}
			],
			"statistics": {"total_detections": 2, "high_confidence_count": 1, "categories_found": ["privacy_interest"]},
			"processing_time": 1.5
		}`))
	})

	analysis, err := client.Analyze(context.Background(), "doc-1", domain.DefaultRedactionConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.ID != "an-1" || analysis.DocumentID != "doc-1" {
		t.Fatalf("unexpected analysis identity: %+v", analysis)
	}
	if len(analysis.Detections) != 2 {
		t.Fatalf("got %d detections, want 2", len(analysis.Detections))
	}
	first := analysis.Detections[0]
	if !first.Approved {
		t.Error("detection without approved flag should default to approved")
	}
	if first.Confidence != 0.9 {
		t.Errorf("detection without confidence = %v, want 0.9", first.Confidence)
	}
	second := analysis.Detections[1]
	if second.Approved {
		t.Error("explicit approved=false must survive decoding")
	}
	if second.Confidence != 0.4 {
		t.Errorf("explicit confidence = %v, want 0.4", second.Confidence)
	}
	if analysis.ProcessingTime != 1.5 {
		t.Errorf("processing time = %v, want 1.5", analysis.ProcessingTime)
	}
}

func TestAnalyzeNotFoundMapsToDocumentNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such document", http.StatusNotFound)
	})

	_, err := client.Analyze(context.Background(), "missing", domain.DefaultRedactionConfig())
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound kind", err)
	}
}

func TestServerErrorMapsToTemporary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine crashed", http.StatusInternalServerError)
	})

	_, err := client.ListDocuments(context.Background())
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("err = %v, want ErrTemporary kind", err)
	}
}

func TestApplyRedactionsReturnsBinaryWithContentType(t *testing.T) {
	want := []byte("%PDF-1.4 redacted")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/doc-1/redact" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var detections []domain.Detection
		if err := json.NewDecoder(r.Body).Decode(&detections); err != nil {
			t.Fatalf("decode detections: %v", err)
		}
		if len(detections) != 1 || detections[0].ID != "d1" {
			t.Errorf("unexpected request detections: %+v", detections)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(want)
	})

	data, contentType, err := client.ApplyRedactions(context.Background(), "doc-1", []domain.Detection{{ID: "d1", Approved: true}})
	if err != nil {
		t.Fatalf("ApplyRedactions: %v", err)
	}
	if !bytes.Equal(data, want) {
		t.Errorf("payload mismatch: got %q", data)
	}
	if contentType != "application/pdf" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestPageEndpointsUseSingularDocumentPaths(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/document/doc-1/page/2":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
		case "/document/doc-1/text/2":
			json.NewEncoder(w).Encode(map[string]string{"text": "page two text"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	img, contentType, err := client.PageImage(context.Background(), "doc-1", 2)
	if err != nil {
		t.Fatalf("PageImage: %v", err)
	}
	if string(img) != "png-bytes" || contentType != "image/png" {
		t.Errorf("image = %q type = %q", img, contentType)
	}

	text, err := client.PageText(context.Background(), "doc-1", 2)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if text != "page two text" {
		t.Errorf("text = %q", text)
	}
}

func TestDeleteRequiresSuccessFlag(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]bool{"success": false})
	})

	if err := client.Delete(context.Background(), "doc-1"); err == nil {
		t.Fatal("expected error when engine reports success=false")
	}
}
