// Package extracontext classifies the free-text note a candidate attaches to a tailoring
// request and plans where, if anywhere, its content lands in the draft.
package extracontext

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/logger"
	"github.com/jonathan/cv-tailor/internal/prompts"
	"github.com/jonathan/cv-tailor/internal/schemas"
	"github.com/jonathan/cv-tailor/internal/types"
)

// ReasoningFallback marks an analysis produced without the model.
const ReasoningFallback = "fallback"

// directiveVerbs mark a note as steering rather than content when the model is unavailable.
var directiveVerbs = []string{"make", "emphasize", "emphasise", "focus", "tailor"}

// Classify decides whether note is a directive or content and where content should go.
// It never fails: without a model, or when the model's answer is unusable, a keyword
// fallback is applied. A blank note yields nil.
func Classify(ctx context.Context, client llm.Client, note, jobText string, log *zap.Logger) *types.ContextAnalysis {
	log = logger.OrNop(log)
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}

	if !llm.IsUsable(client) {
		log.Info("context classification using fallback", zap.String("reason", "llm not configured"))
		return Fallback(note, nil)
	}

	analysis, err := classifyWithLLM(ctx, client, note, jobText)
	if err != nil {
		log.Warn("context classification failed, using fallback", zap.Error(err))
		return Fallback(note, err)
	}
	return analysis
}

// Fallback classifies note by keyword: a directive verb makes it adaptation guidance,
// anything else is a statement for the summary. cause, when set, is kept in the reasoning.
func Fallback(note string, cause error) *types.ContextAnalysis {
	reasoning := ReasoningFallback
	if cause != nil {
		reasoning = fmt.Sprintf("%s: %v", ReasoningFallback, cause)
	}

	lower := strings.ToLower(note)
	for _, verb := range directiveVerbs {
		if strings.Contains(lower, verb) {
			return &types.ContextAnalysis{
				Type:          types.ContextDirective,
				Placement:     types.PlacementAdaptationGuidance,
				SuggestedText: note,
				Reasoning:     reasoning,
			}
		}
	}
	return &types.ContextAnalysis{
		Type:          types.ContextStatement,
		Placement:     types.PlacementSummary,
		SuggestedText: note,
		Reasoning:     reasoning,
	}
}

// Directive returns the text that should steer analysis, matching and adaptation,
// or "" when the note is pure content.
func Directive(analysis *types.ContextAnalysis, note string) string {
	if analysis == nil {
		return ""
	}
	if analysis.IsDirective() || analysis.Type == types.ContextMixed {
		return strings.TrimSpace(note)
	}
	return ""
}

func classifyWithLLM(ctx context.Context, client llm.Client, note, jobText string) (*types.ContextAnalysis, error) {
	prompt := prompts.Render("context.json", "classify", map[string]string{
		"Context": note,
		"JobText": jobText,
	})
	response, err := client.GenerateText(ctx, prompt, prompts.MustGet("context.json", "system"))
	if err != nil {
		return nil, err
	}

	raw := llm.ExtractJSONObject(response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in classifier response")
	}
	if err := schemas.Validate(schemas.ContextAnalysis, raw); err != nil {
		return nil, err
	}

	var analysis types.ContextAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}
	normalize(&analysis, note)
	return &analysis, nil
}

// normalize makes type and placement agree and guarantees content has text to place.
func normalize(a *types.ContextAnalysis, note string) {
	a.SuggestedText = strings.TrimSpace(a.SuggestedText)
	a.Reasoning = strings.TrimSpace(a.Reasoning)

	switch {
	case a.Type == types.ContextDirective:
		a.Placement = types.PlacementAdaptationGuidance
	case a.Placement == types.PlacementAdaptationGuidance && a.Type != types.ContextMixed:
		a.Type = types.ContextDirective
	}

	if a.SuggestedText == "" {
		a.SuggestedText = note
	}
}
