package domain

import "github.com/google/uuid"

// Category is an OPRA exemption tag attached to a detection.
type Category string

const (
	CategoryPrivacyInterest       Category = "N.J.S.A. 47:1A-1"
	CategoryDeliberativeMaterial  Category = "N.J.S.A. 47:1A-1.1(2)"
	CategoryCriminalInvestigatory Category = "N.J.S.A. 47:1A-1.1(5)"
	CategoryVictimsRecords        Category = "N.J.S.A. 47:1A-1.1(6)"
	CategoryTradeSecrets          Category = "N.J.S.A. 47:1A-1.1(8)"
	CategoryAttorneyClient        Category = "N.J.S.A. 47:1A-1.1(9)"
	CategorySecurityMeasures      Category = "N.J.S.A. 47:1A-1.1(12)"
	CategoryEmploymentComplaints  Category = "N.J.S.A. 47:1A-1.1(15)"
	CategoryPersonalIdentifying   Category = "N.J.S.A. 47:1A-1.1(20)"
	CategoryJuvenileInfo          Category = "N.J.S.A. 47:1A-1.1(23)"
	CategoryHIPAAData             Category = "N.J.S.A. 47:1A-1.1(28)"
	CategoryPersonnelRecords      Category = "N.J.S.A. 47:1A-10"
)

// DefaultDetectionReason is filled in when the engine omits a reason.
const DefaultDetectionReason = "Automatically detected"

// HighConfidenceThreshold separates high-confidence detections in analysis
// summary statistics.
const HighConfidenceThreshold = 0.8

// Detection is one candidate sensitive span found by the engine. IDs are
// stable within one analysis; the store assigns one when the engine omits it.
// Approved defaults to true on ingest: the reviewer rejects false positives
// rather than opting spans in.
type Detection struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Category        Category `json:"category"`
	Confidence      float64  `json:"confidence"`
	PageNumber      int      `json:"page_number"`
	StartPos        int      `json:"start_pos"`
	EndPos          int      `json:"end_pos"`
	DetectionReason string   `json:"detection_reason"`
	PatternName     string   `json:"pattern_name,omitempty"`
	Context         string   `json:"context,omitempty"`
	Approved        bool     `json:"approved"`
}

// DetectionPatch carries the fields a reviewer may change on a detection.
// Nil fields are left untouched.
type DetectionPatch struct {
	Approved        *bool   `json:"approved,omitempty"`
	DetectionReason *string `json:"detection_reason,omitempty"`
}

// Apply merges the patch into the detection in place.
func (p DetectionPatch) Apply(d *Detection) {
	if p.Approved != nil {
		d.Approved = *p.Approved
	}
	if p.DetectionReason != nil {
		d.DetectionReason = *p.DetectionReason
	}
}

// Analysis is the complete result of one detection run over one document.
type Analysis struct {
	ID                  string      `json:"id"`
	DocumentID          string      `json:"document_id"`
	TotalDetections     int         `json:"total_detections"`
	HighConfidenceCount int         `json:"high_confidence_count"`
	Categories          []Category  `json:"categories"`
	Detections          []Detection `json:"detections"`
	ProcessingTime      float64     `json:"processing_time"`
}

// EnsureDetectionIDs assigns a fresh unique id to every detection lacking
// one. Detections that already carry an id keep it, so re-running the fill
// is idempotent. Returns the number of ids assigned.
func (a *Analysis) EnsureDetectionIDs() int {
	filled := 0
	for i := range a.Detections {
		if a.Detections[i].ID == "" {
			a.Detections[i].ID = uuid.NewString()
			filled++
		}
	}
	return filled
}

// RecomputeStats derives the summary counters from the detection list.
// Called once at the ingest boundary; never re-applied on read.
func (a *Analysis) RecomputeStats() {
	a.TotalDetections = len(a.Detections)
	a.HighConfidenceCount = 0
	seen := make(map[Category]struct{})
	a.Categories = a.Categories[:0]
	for _, d := range a.Detections {
		if d.Confidence >= HighConfidenceThreshold {
			a.HighConfidenceCount++
		}
		if _, ok := seen[d.Category]; !ok {
			seen[d.Category] = struct{}{}
			a.Categories = append(a.Categories, d.Category)
		}
	}
}

// ApprovedDetections returns the subset the reviewer currently intends to
// redact, in document order.
func (a *Analysis) ApprovedDetections() []Detection {
	out := make([]Detection, 0, len(a.Detections))
	for _, d := range a.Detections {
		if d.Approved {
			out = append(out, d)
		}
	}
	return out
}

// DetectionsForPage filters detections to one page, preserving order.
func (a *Analysis) DetectionsForPage(page int) []Detection {
	out := make([]Detection, 0, len(a.Detections))
	for _, d := range a.Detections {
		if d.PageNumber == page {
			out = append(out, d)
		}
	}
	return out
}
