package domain

import "time"

// Document is a PDF registered with the review engine. Immutable after
// upload except for metadata merges when the engine re-reports it.
type Document struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	Size       int64             `json:"size"`
	PageCount  int               `json:"page_count"`
	UploadedAt time.Time         `json:"uploaded_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// MergeMetadata folds newer engine-reported metadata into the document
// without discarding keys it already carries.
func (d *Document) MergeMetadata(meta map[string]string) {
	if len(meta) == 0 {
		return
	}
	if d.Metadata == nil {
		d.Metadata = make(map[string]string, len(meta))
	}
	for k, v := range meta {
		d.Metadata[k] = v
	}
}
