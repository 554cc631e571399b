package usecase

import (
	"sort"
	"strings"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

// SegmentPageText partitions page text into plain and redacted segments.
// Concatenating the segment texts reproduces the input verbatim, and no two
// redacted segments cover overlapping ranges.
//
// Detections whose text does not occur literally in the page (offsets from
// normalized or OCR'd text) are dropped from highlighting; they stay fully
// reviewable in the detection list. Candidates are ordered by the position
// of their first occurrence, and a monotone cursor consumes each occurrence
// exactly once, so duplicate substrings resolve left to right and a
// detection whose span was already claimed is skipped.
func SegmentPageText(text string, detections []domain.Detection) []domain.Segment {
	if text == "" {
		return nil
	}

	type candidate struct {
		detection domain.Detection
		first     int
	}
	candidates := make([]candidate, 0, len(detections))
	for _, d := range detections {
		if d.Text == "" {
			continue
		}
		idx := strings.Index(text, d.Text)
		if idx < 0 {
			continue
		}
		candidates = append(candidates, candidate{detection: d, first: idx})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].first < candidates[j].first
	})

	segments := make([]domain.Segment, 0, 2*len(candidates)+1)
	cursor := 0
	for _, c := range candidates {
		rel := strings.Index(text[cursor:], c.detection.Text)
		if rel < 0 {
			continue
		}
		start := cursor + rel
		if start > cursor {
			segments = append(segments, domain.Segment{Text: text[cursor:start]})
		}
		end := start + len(c.detection.Text)
		segments = append(segments, domain.Segment{
			Text:        text[start:end],
			Redacted:    true,
			DetectionID: c.detection.ID,
		})
		cursor = end
	}
	if cursor < len(text) {
		segments = append(segments, domain.Segment{Text: text[cursor:]})
	}
	return segments
}
