package types

// ContextType classifies free-text additional context.
type ContextType string

// Context types.
const (
	ContextDirective   ContextType = "directive"
	ContextStatement   ContextType = "content_statement"
	ContextAchievement ContextType = "achievement"
	ContextMixed       ContextType = "mixed"
)

// Placement says where classified context should land in the draft.
type Placement string

// Placements.
const (
	PlacementSummary               Placement = "summary"
	PlacementProjectHighlight      Placement = "project_highlight"
	PlacementExperienceDescription Placement = "experience_description"
	PlacementAdaptationGuidance    Placement = "adaptation_guidance"
)

// ContextAnalysis is the classifier's verdict on additional context.
type ContextAnalysis struct {
	Type          ContextType `json:"type"`
	Placement     Placement   `json:"placement"`
	SuggestedText string      `json:"suggested_text"`
	Reasoning     string      `json:"reasoning"`
}

// IsDirective reports whether the context steers adaptation rather than adding content.
func (c *ContextAnalysis) IsDirective() bool {
	return c != nil && (c.Type == ContextDirective || c.Placement == PlacementAdaptationGuidance)
}

// ContextIncorporation is a plan for inserting context text into the draft.
// Indices refer to positions in the selected experience list, never the original profile.
type ContextIncorporation struct {
	Summary      string            `json:"summary,omitempty"`
	Highlights   []HighlightInsert `json:"highlights,omitempty"`
	Descriptions map[int]string    `json:"descriptions,omitempty"`
}

// HighlightInsert appends Text to the highlights of one selected project.
type HighlightInsert struct {
	ExperienceIndex int    `json:"experience_index"`
	ProjectIndex    int    `json:"project_index"`
	Text            string `json:"text"`
}

// IsEmpty reports whether the plan changes nothing.
func (c *ContextIncorporation) IsEmpty() bool {
	return c == nil || (c.Summary == "" && len(c.Highlights) == 0 && len(c.Descriptions) == 0)
}
