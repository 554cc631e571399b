package domain

// Snapshot is the persisted slice of review state: documents in insertion
// order, all completed analyses, and the redaction config. Current-document
// and current-analysis pointers are session-transient and deliberately not
// part of the snapshot.
type Snapshot struct {
	Documents []Document          `json:"documents"`
	Analyses  map[string]Analysis `json:"analyses"`
	Config    RedactionConfig     `json:"config"`
}
