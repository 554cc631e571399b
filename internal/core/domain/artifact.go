package domain

import "time"

// Artifact is a redacted document blob returned by the engine. The core
// never inspects the bytes; it only names and relays them.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AnalysisCompletedEvent is published after an analysis commits to the store.
type AnalysisCompletedEvent struct {
	AnalysisID      string    `json:"analysis_id"`
	DocumentID      string    `json:"document_id"`
	TotalDetections int       `json:"total_detections"`
	CompletedAt     time.Time `json:"completed_at"`
}

// RedactionsAppliedEvent is published after a redacted artifact is produced.
type RedactionsAppliedEvent struct {
	DocumentID   string    `json:"document_id"`
	AnalysisID   string    `json:"analysis_id"`
	AppliedCount int       `json:"applied_count"`
	ArchiveKey   string    `json:"archive_key,omitempty"`
	AppliedAt    time.Time `json:"applied_at"`
}
