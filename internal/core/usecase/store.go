package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/core/ports"
)

// Store is the single source of truth for review state. Every mutation goes
// through a named action; actions are serialized by the mutex so any reader
// observes them linearizably. Documents, analyses and the redaction config
// are persisted through the snapshot store after each action that touches
// them; the current-document/current-analysis pointers and the transient
// loading/error flags reset on restart.
type Store struct {
	snapshots ports.SnapshotStore

	mu              sync.Mutex
	documents       []domain.Document
	analyses        map[string]domain.Analysis
	config          domain.RedactionConfig
	currentDocument *domain.Document
	currentAnalysis *domain.Analysis
	loading         bool
	lastError       string
}

func NewStore(snapshots ports.SnapshotStore) *Store {
	return &Store{
		snapshots: snapshots,
		analyses:  make(map[string]domain.Analysis),
		config:    domain.DefaultRedactionConfig(),
	}
}

// Restore loads the persisted snapshot, replacing the durable state. A nil
// snapshot (nothing persisted yet) leaves the defaults in place.
func (s *Store) Restore(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append([]domain.Document(nil), snap.Documents...)
	s.analyses = make(map[string]domain.Analysis, len(snap.Analyses))
	for id, a := range snap.Analyses {
		s.analyses[id] = a
	}
	s.config = snap.Config
	s.currentDocument = nil
	s.currentAnalysis = nil
	s.loading = false
	s.lastError = ""
	return nil
}

// SetCurrentDocument replaces the current-document pointer. Passing nil
// clears it. No other state is touched.
func (s *Store) SetCurrentDocument(doc *domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc == nil {
		s.currentDocument = nil
		return
	}
	copied := *doc
	s.currentDocument = &copied
}

// SetCurrentAnalysis replaces the current-analysis pointer.
func (s *Store) SetCurrentAnalysis(a *domain.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a == nil {
		s.currentAnalysis = nil
		return
	}
	copied := cloneAnalysis(*a)
	s.currentAnalysis = &copied
}

// AddDocument upserts by id: an existing document is replaced in place,
// preserving its position; a new one is appended. The document mapping never
// holds two entries with the same id.
func (s *Store) AddDocument(ctx context.Context, doc domain.Document) error {
	s.mu.Lock()
	replaced := false
	for i := range s.documents {
		if s.documents[i].ID == doc.ID {
			s.documents[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		s.documents = append(s.documents, doc)
	}
	s.mu.Unlock()

	return s.persist(ctx, "add document")
}

// RemoveDocument deletes the document from the mapping. The current pointers
// are cleared when they referenced it.
func (s *Store) RemoveDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	for i := range s.documents {
		if s.documents[i].ID == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			break
		}
	}
	if s.currentDocument != nil && s.currentDocument.ID == id {
		s.currentDocument = nil
	}
	if s.currentAnalysis != nil && s.currentAnalysis.DocumentID == id {
		s.currentAnalysis = nil
	}
	s.mu.Unlock()

	return s.persist(ctx, "remove document")
}

// AddAnalysis fills missing detection ids, then stores the analysis under
// its own id. Every detection in a stored analysis carries a non-empty id
// unique within that analysis; already-assigned ids are never changed.
func (s *Store) AddAnalysis(ctx context.Context, a domain.Analysis) (domain.Analysis, error) {
	a = cloneAnalysis(a)
	a.EnsureDetectionIDs()

	s.mu.Lock()
	s.analyses[a.ID] = a
	s.mu.Unlock()

	if err := s.persist(ctx, "add analysis"); err != nil {
		return domain.Analysis{}, err
	}
	return a, nil
}

// UpdateDetection merges the patch into the detection with the given id
// within the current analysis only, then writes the mutated analysis back
// under its own id. A stale or unknown id is a silent no-op: the detection
// may legitimately have been replaced by an analysis refresh.
func (s *Store) UpdateDetection(ctx context.Context, detectionID string, patch domain.DetectionPatch) (bool, error) {
	s.mu.Lock()
	found := false
	if s.currentAnalysis != nil {
		for i := range s.currentAnalysis.Detections {
			if s.currentAnalysis.Detections[i].ID == detectionID {
				patch.Apply(&s.currentAnalysis.Detections[i])
				found = true
				break
			}
		}
		if found {
			s.analyses[s.currentAnalysis.ID] = cloneAnalysis(*s.currentAnalysis)
		}
	}
	s.mu.Unlock()

	if !found {
		return false, nil
	}
	return true, s.persist(ctx, "update detection")
}

// ApproveAllDetections marks every detection of the current analysis
// approved. All-or-nothing over the current analysis only.
func (s *Store) ApproveAllDetections(ctx context.Context) error {
	return s.setAllApproved(ctx, true)
}

// RejectAllDetections marks every detection of the current analysis rejected.
func (s *Store) RejectAllDetections(ctx context.Context) error {
	return s.setAllApproved(ctx, false)
}

func (s *Store) setAllApproved(ctx context.Context, approved bool) error {
	s.mu.Lock()
	if s.currentAnalysis != nil {
		for i := range s.currentAnalysis.Detections {
			s.currentAnalysis.Detections[i].Approved = approved
		}
		s.analyses[s.currentAnalysis.ID] = cloneAnalysis(*s.currentAnalysis)
	}
	s.mu.Unlock()

	return s.persist(ctx, "set approval")
}

// UpdateRedactionConfig shallow-merges the patch into the config.
func (s *Store) UpdateRedactionConfig(ctx context.Context, patch domain.RedactionConfigPatch) (domain.RedactionConfig, error) {
	s.mu.Lock()
	patch.Apply(&s.config)
	merged := s.config
	s.mu.Unlock()

	return merged, s.persist(ctx, "update config")
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *Store) SetError(message string) {
	s.mu.Lock()
	s.lastError = message
	s.mu.Unlock()
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// CurrentDocument returns a copy of the current document, or nil.
func (s *Store) CurrentDocument() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentDocument == nil {
		return nil
	}
	copied := *s.currentDocument
	return &copied
}

// CurrentAnalysis returns a copy of the current analysis, or nil.
func (s *Store) CurrentAnalysis() *domain.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentAnalysis == nil {
		return nil
	}
	copied := cloneAnalysis(*s.currentAnalysis)
	return &copied
}

// Documents lists registered documents in insertion order.
func (s *Store) Documents() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Document(nil), s.documents...)
}

// Document looks up one document by id.
func (s *Store) Document(id string) (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.documents {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}

// Analysis looks up one completed analysis by id.
func (s *Store) Analysis(id string) (domain.Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.analyses[id]
	if !ok {
		return domain.Analysis{}, false
	}
	return cloneAnalysis(a), true
}

// RedactionConfig returns the active config.
func (s *Store) RedactionConfig() domain.RedactionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *Store) persist(ctx context.Context, operation string) error {
	if s.snapshots == nil {
		return nil
	}

	s.mu.Lock()
	snap := domain.Snapshot{
		Documents: append([]domain.Document(nil), s.documents...),
		Analyses:  make(map[string]domain.Analysis, len(s.analyses)),
		Config:    s.config,
	}
	for id, a := range s.analyses {
		snap.Analyses[id] = cloneAnalysis(a)
	}
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, &snap); err != nil {
		return fmt.Errorf("%s: save snapshot: %w", operation, err)
	}
	return nil
}

func cloneAnalysis(a domain.Analysis) domain.Analysis {
	a.Detections = append([]domain.Detection(nil), a.Detections...)
	a.Categories = append([]domain.Category(nil), a.Categories...)
	return a
}
