package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

type archiveFake struct {
	keys []string
	err  error
}

func (f *archiveFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	if _, err := io.Copy(io.Discard, data); err != nil {
		return err
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *archiveFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func storeWithCurrentAnalysis(t *testing.T, detections []domain.Detection) *Store {
	t.Helper()
	store := newStoreWithDocument(t, "doc_1")
	committed, err := store.AddAnalysis(context.Background(), domain.Analysis{
		ID:         "an_1",
		DocumentID: "doc_1",
		Detections: detections,
	})
	if err != nil {
		t.Fatalf("AddAnalysis() error = %v", err)
	}
	store.SetCurrentAnalysis(&committed)
	return store
}

func TestApplyProducesNamedArtifact(t *testing.T) {
	store := storeWithCurrentAnalysis(t, []domain.Detection{
		{ID: "d1", Text: "John Smith", Approved: true},
		{ID: "d2", Text: "123-45-6789", Approved: false},
	})
	engine := &engineFake{applyData: []byte("%PDF-redacted")}
	archive := &archiveFake{}
	events := &publisherFake{}
	uc := NewApplyUseCase(store, engine, archive, events, nil)

	artifact, err := uc.Apply(context.Background(), "doc_1")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if artifact.Filename != "redacted_report.pdf" {
		t.Fatalf("artifact filename = %q", artifact.Filename)
	}
	if string(artifact.Data) != "%PDF-redacted" {
		t.Fatalf("artifact bytes relayed verbatim, got %q", artifact.Data)
	}
	if len(engine.applied) != 1 || engine.applied[0].ID != "d1" {
		t.Fatalf("only the approved subset may be transmitted: %+v", engine.applied)
	}
	if len(archive.keys) != 1 {
		t.Fatalf("artifact must be archived")
	}
	if len(events.applied) != 1 || events.applied[0].AppliedCount != 1 {
		t.Fatalf("applied event missing: %+v", events.applied)
	}
}

func TestApplyFillsOptionalWireFields(t *testing.T) {
	store := storeWithCurrentAnalysis(t, []domain.Detection{
		{ID: "d1", Text: "John Smith", Approved: true},
	})
	engine := &engineFake{applyData: []byte("x")}
	uc := NewApplyUseCase(store, engine, nil, nil, nil)

	if _, err := uc.Apply(context.Background(), "doc_1"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	sent := engine.applied[0]
	if sent.DetectionReason == "" || sent.PatternName == "" || sent.Context == "" {
		t.Fatalf("wire payload must be fully populated: %+v", sent)
	}
}

func TestApplyEmptyApprovedSetRejectedBeforeNetwork(t *testing.T) {
	store := storeWithCurrentAnalysis(t, []domain.Detection{
		{ID: "d1", Text: "John Smith", Approved: false},
	})
	engine := &engineFake{}
	uc := NewApplyUseCase(store, engine, nil, nil, nil)

	_, err := uc.Apply(context.Background(), "doc_1")
	if !domain.IsKind(err, domain.ErrNoApprovedDetections) {
		t.Fatalf("expected ErrNoApprovedDetections, got %v", err)
	}
	if engine.applyCalls.Load() != 0 {
		t.Fatalf("empty set must never reach the network")
	}
}

func TestApplyEngineFailureLeavesStoreUntouched(t *testing.T) {
	store := storeWithCurrentAnalysis(t, []domain.Detection{
		{ID: "d1", Text: "John Smith", Approved: true},
	})
	before := store.CurrentAnalysis()
	engine := &engineFake{applyErr: errors.New("engine down")}
	uc := NewApplyUseCase(store, engine, nil, nil, nil)

	if _, err := uc.Apply(context.Background(), "doc_1"); err == nil {
		t.Fatalf("expected failure")
	}
	after := store.CurrentAnalysis()
	if before.ID != after.ID || len(before.Detections) != len(after.Detections) {
		t.Fatalf("store must not change on apply failure")
	}
	if before.Detections[0].Approved != after.Detections[0].Approved {
		t.Fatalf("approval state must not change on apply failure")
	}
}

func TestApplyWithoutCurrentAnalysis(t *testing.T) {
	store := newStoreWithDocument(t, "doc_1")
	uc := NewApplyUseCase(store, &engineFake{}, nil, nil, nil)

	_, err := uc.Apply(context.Background(), "doc_1")
	if !domain.IsKind(err, domain.ErrAnalysisNotFound) {
		t.Fatalf("expected ErrAnalysisNotFound, got %v", err)
	}
}

func TestApplyArchiveFailureIsBestEffort(t *testing.T) {
	store := storeWithCurrentAnalysis(t, []domain.Detection{
		{ID: "d1", Text: "x", Approved: true},
	})
	engine := &engineFake{applyData: []byte("x")}
	archive := &archiveFake{err: errors.New("disk full")}
	uc := NewApplyUseCase(store, engine, archive, nil, nil)

	artifact, err := uc.Apply(context.Background(), "doc_1")
	if err != nil {
		t.Fatalf("archive failure must not fail the apply: %v", err)
	}
	if artifact == nil {
		t.Fatalf("expected artifact despite archive failure")
	}
}
