package domain

// Segment is a contiguous slice of page text classified for rendering.
// Concatenating the texts of a page's segments reproduces the page text
// verbatim. Redacted segments reference the detection that claimed them;
// whether the highlight renders as selected is read from the detection's
// current approved state, never cached here.
type Segment struct {
	Text        string `json:"text"`
	Redacted    bool   `json:"redacted"`
	DetectionID string `json:"detection_id,omitempty"`
}
