package domain

// CategoryInfo describes one statutory exemption category for the review UI.
type CategoryInfo struct {
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Examples    []string `json:"examples,omitempty"`
}

// PatternInfo describes one detection pattern the engine can run.
type PatternInfo struct {
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
}

// PatternCatalog is the engine's pattern/category/document-type inventory,
// optionally enriched with locally defined category descriptions.
type PatternCatalog struct {
	Patterns      []PatternInfo  `json:"patterns"`
	Categories    []CategoryInfo `json:"categories"`
	DocumentTypes []string       `json:"document_types"`
}

// EngineHealth is the engine's health-check response.
type EngineHealth struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
