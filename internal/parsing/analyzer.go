// Package parsing extracts a RequirementAnalysis from a job description, using the
// language model when available and a deterministic heuristic otherwise.
package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/logger"
	"github.com/jonathan/cv-tailor/internal/prompts"
	"github.com/jonathan/cv-tailor/internal/schemas"
	"github.com/jonathan/cv-tailor/internal/textutil"
	"github.com/jonathan/cv-tailor/internal/types"
)

const (
	maxResponsibilities  = 10
	maxSenioritySignals  = 5
	maxResponsibilityLen = 140
)

// Source values recorded on the analysis.
const (
	SourceLLM       = "llm"
	SourceHeuristic = "heuristic"
)

// Analyze extracts requirements from jobText. A non-empty directive is prepended
// to the model prompt as a steering instruction. Analyze never fails: any model
// problem falls back to AnalyzeHeuristic.
func Analyze(ctx context.Context, client llm.Client, jobText, directive string, log *zap.Logger) *types.RequirementAnalysis {
	log = logger.OrNop(log)

	if !llm.IsUsable(client) {
		log.Info("requirement analysis using heuristic", zap.String("reason", "llm not configured"))
		return AnalyzeHeuristic(jobText)
	}

	analysis, err := analyzeWithLLM(ctx, client, jobText, directive)
	if err != nil {
		log.Warn("requirement analysis falling back to heuristic", zap.Error(err))
		return AnalyzeHeuristic(jobText)
	}

	log.Debug("requirement analysis complete",
		zap.String("source", analysis.Source),
		zap.Int("required", len(analysis.RequiredSkills)),
		zap.Int("preferred", len(analysis.PreferredSkills)),
		zap.Int("responsibilities", len(analysis.Responsibilities)))
	return analysis
}

func analyzeWithLLM(ctx context.Context, client llm.Client, jobText, directive string) (*types.RequirementAnalysis, error) {
	responseText, err := client.GenerateText(ctx, buildAnalysisPrompt(jobText, directive), prompts.MustGet("analysis.json", "system"))
	if err != nil {
		return nil, err
	}

	raw := llm.ExtractJSONObject(responseText)
	if raw == "" {
		return nil, &ParseError{Message: "no JSON object in response"}
	}
	if err := schemas.Validate(schemas.RequirementAnalysis, raw); err != nil {
		return nil, &ParseError{Message: "response does not match schema", Cause: err}
	}

	var analysis types.RequirementAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}

	postProcessAnalysis(&analysis)
	if analysis.IsEmpty() {
		return nil, &ParseError{Message: "analysis is empty"}
	}
	analysis.Source = SourceLLM
	return &analysis, nil
}

func buildAnalysisPrompt(jobText, directive string) string {
	data := map[string]string{"JobText": jobText}
	if d := strings.TrimSpace(directive); d != "" {
		data["Directive"] = prompts.Render("analysis.json", "directive-preamble", map[string]string{"Directive": d})
	}
	return prompts.Render("analysis.json", "extract-requirements", data)
}

// postProcessAnalysis canonicalizes terms, keeps each skill in one bucket and applies list caps.
func postProcessAnalysis(a *types.RequirementAnalysis) {
	a.RequiredSkills = textutil.NormalizeTerms(a.RequiredSkills)
	a.PreferredSkills = without(textutil.NormalizeTerms(a.PreferredSkills), a.RequiredSkills)
	a.DomainKeywords = without(textutil.NormalizeTerms(a.DomainKeywords), a.RequiredSkills, a.PreferredSkills)

	responsibilities := make([]string, 0, len(a.Responsibilities))
	for _, r := range a.Responsibilities {
		if r = textutil.CollapseSpace(r); r != "" {
			responsibilities = append(responsibilities, textutil.Truncate(r, maxResponsibilityLen))
		}
	}
	a.Responsibilities = capList(textutil.Dedupe(responsibilities), maxResponsibilities)

	signals := make([]string, 0, len(a.SenioritySignals))
	for _, s := range a.SenioritySignals {
		signals = append(signals, strings.ToLower(strings.TrimSpace(s)))
	}
	a.SenioritySignals = capList(textutil.Dedupe(signals), maxSenioritySignals)
}

// without returns items not present in any of the exclude lists.
func without(items []string, exclude ...[]string) []string {
	drop := make(map[string]bool)
	for _, list := range exclude {
		for _, e := range list {
			drop[e] = true
		}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !drop[it] {
			out = append(out, it)
		}
	}
	return out
}

func capList(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
