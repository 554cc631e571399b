package domain

// RedactionConfig is the closed set of options forwarded to the detection
// engine. The core does not interpret threshold or strategy logic itself;
// it only guarantees the record stays well-formed.
type RedactionConfig struct {
	DocumentType        string     `json:"document_type"`
	ConfidenceThreshold float64    `json:"confidence_threshold"`
	EnabledCategories   []Category `json:"enabled_categories"`
	UseAIDetection      bool       `json:"use_ai_detection"`
	UsePatternDetection bool       `json:"use_pattern_detection"`
	UseContextAnalysis  bool       `json:"use_context_analysis"`
}

// DefaultRedactionConfig mirrors the engine's own defaults.
func DefaultRedactionConfig() RedactionConfig {
	return RedactionConfig{
		DocumentType:        "general",
		ConfidenceThreshold: 0.6,
		EnabledCategories:   []Category{},
		UseAIDetection:      true,
		UsePatternDetection: true,
		UseContextAnalysis:  true,
	}
}

// RedactionConfigPatch is a partial update; nil fields keep their current
// value. Unknown keys are rejected at the HTTP boundary by strict decoding.
type RedactionConfigPatch struct {
	DocumentType        *string     `json:"document_type,omitempty"`
	ConfidenceThreshold *float64    `json:"confidence_threshold,omitempty"`
	EnabledCategories   *[]Category `json:"enabled_categories,omitempty"`
	UseAIDetection      *bool       `json:"use_ai_detection,omitempty"`
	UsePatternDetection *bool       `json:"use_pattern_detection,omitempty"`
	UseContextAnalysis  *bool       `json:"use_context_analysis,omitempty"`
}

// Apply shallow-merges the patch into the config in place.
func (p RedactionConfigPatch) Apply(c *RedactionConfig) {
	if p.DocumentType != nil {
		c.DocumentType = *p.DocumentType
	}
	if p.ConfidenceThreshold != nil {
		c.ConfidenceThreshold = *p.ConfidenceThreshold
	}
	if p.EnabledCategories != nil {
		c.EnabledCategories = append([]Category(nil), (*p.EnabledCategories)...)
	}
	if p.UseAIDetection != nil {
		c.UseAIDetection = *p.UseAIDetection
	}
	if p.UsePatternDetection != nil {
		c.UsePatternDetection = *p.UsePatternDetection
	}
	if p.UseContextAnalysis != nil {
		c.UseContextAnalysis = *p.UseContextAnalysis
	}
}
