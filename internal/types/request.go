package types

import (
	"github.com/go-playground/validator/v10"
)

// Style selects how much the pipeline rewrites selected content.
type Style string

// Tailoring styles.
const (
	StyleSelectAndReorder Style = "select_and_reorder"
	StyleRewriteBullets   Style = "rewrite_bullets"
	StyleLLMTailor        Style = "llm_tailor"
)

// UsesLLM reports whether the style rewrites text through the language model.
func (s Style) UsesLLM() bool {
	return s == StyleRewriteBullets || s == StyleLLMTailor
}

// DefaultMaxExperiences bounds the selected experiences when the request does not.
const DefaultMaxExperiences = 4

// TailorRequest is one tailoring job.
type TailorRequest struct {
	Profile            Profile `json:"profile"`
	JobDescription     string  `json:"job_description" validate:"required"`
	TargetCompany      string  `json:"target_company,omitempty" validate:"max=200"`
	TargetRole         string  `json:"target_role,omitempty" validate:"max=200"`
	Seniority          string  `json:"seniority,omitempty" validate:"max=100"`
	Style              Style   `json:"style,omitempty" validate:"omitempty,oneof=select_and_reorder rewrite_bullets llm_tailor"`
	MaxExperiences     int     `json:"max_experiences,omitempty" validate:"min=0,max=20"`
	AdditionalContext  string  `json:"additional_context,omitempty" validate:"max=2000"`
	IncludeCoverLetter bool    `json:"include_cover_letter,omitempty"`
}

// Validate validates the TailorRequest using the validator.
func (r *TailorRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// EffectiveStyle returns the requested style, defaulting to select_and_reorder.
func (r *TailorRequest) EffectiveStyle() Style {
	if r.Style == "" {
		return StyleSelectAndReorder
	}
	return r.Style
}

// EffectiveMaxExperiences returns the experience cap, defaulting to DefaultMaxExperiences.
func (r *TailorRequest) EffectiveMaxExperiences() int {
	if r.MaxExperiences <= 0 {
		return DefaultMaxExperiences
	}
	return r.MaxExperiences
}

// TailorResponse is the pipeline's result.
type TailorResponse struct {
	RequestID   string               `json:"request_id"`
	Draft       Draft                `json:"draft"`
	CoverLetter string               `json:"cover_letter,omitempty"`
	Warnings    []string             `json:"warnings"`
	Questions   []string             `json:"questions"`
	Summary     []string             `json:"summary"`
	Evidence    map[string][]string  `json:"evidence,omitempty"`
	Coverage    CoverageSummary      `json:"coverage"`
	Analysis    *RequirementAnalysis `json:"analysis,omitempty"`
	Context     *ContextAnalysis     `json:"context,omitempty"`
}
