package types

// SelectionResult holds the experiences chosen for the draft, each trimmed to its
// selected projects and highlights. All text is copied verbatim from the profile.
type SelectionResult struct {
	Experiences []Experience `json:"experiences"`
	// Trace maps Experience.Identity() to the source indices that were kept.
	Trace map[string]ExperienceTrace `json:"trace"`
}

// ExperienceTrace records where a selected experience came from in the profile.
type ExperienceTrace struct {
	SourceIndex int            `json:"source_index"`
	Score       Score          `json:"score"`
	Projects    []ProjectTrace `json:"projects,omitempty"`
}

// ProjectTrace records a selected project's source index and its kept highlight indices.
type ProjectTrace struct {
	SourceIndex int   `json:"source_index"`
	Highlights  []int `json:"highlights,omitempty"`
}

// AdaptedContent has the same shape as SelectionResult, with text possibly reworded.
type AdaptedContent struct {
	Experiences []Experience `json:"experiences"`
	// Notes maps a field path (e.g. "experiences[0].projects[1].highlights[2]") to what happened to it.
	Notes    map[string]string `json:"notes,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Score is a relevance score with its components kept for explainability.
type Score struct {
	Value      float64         `json:"value"`
	Components ScoreComponents `json:"components"`
}

// ScoreComponents are the inputs combined into Score.Value.
type ScoreComponents struct {
	KeywordMatch        float64 `json:"keyword_match"`
	ResponsibilityMatch float64 `json:"responsibility_match"`
	SeniorityMatch      float64 `json:"seniority_match"`
	Recency             float64 `json:"recency"`
	QualityPenalty      float64 `json:"quality_penalty"`
}
