// Package review derives the human-facing summary, open questions and evidence map from an assembled draft.
package review

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/cv-tailor/internal/textutil"
	"github.com/jonathan/cv-tailor/internal/types"
)

const (
	contextPreviewRunes = 100
	maxEvidenceKeywords = 8
	maxEvidenceItems    = 3
)

// Questions asked of the candidate.
const (
	QuestionAddMetrics    = "None of the selected highlights includes a number. Can you add measurable outcomes (latency, revenue, users, time saved) to the most relevant ones?"
	QuestionNoExperiences = "No experience in your profile was selected for this job. Is there relevant work missing from your profile?"
)

// Input is what Build reads.
type Input struct {
	Draft             *types.Draft
	Analysis          *types.RequirementAnalysis
	Coverage          types.CoverageSummary
	Seniority         string
	AdditionalContext string
}

// Build derives the review for an assembled draft.
func Build(in Input) *types.Review {
	draft := in.Draft
	if draft == nil {
		draft = &types.Draft{}
	}
	return &types.Review{
		Summary:   summary(in, draft),
		Questions: questions(draft),
		Evidence:  Evidence(in.Analysis, draft),
	}
}

func summary(in Input, draft *types.Draft) []string {
	var lines []string

	target := strings.TrimSpace(draft.TargetRole)
	if target == "" {
		target = "the role"
	}
	if seniority := strings.TrimSpace(in.Seniority); seniority != "" {
		target = fmt.Sprintf("%s (%s)", target, seniority)
	}
	if company := strings.TrimSpace(draft.TargetCompany); company != "" {
		target = fmt.Sprintf("%s at %s", target, company)
	}
	lines = append(lines, "Tailored for "+target)

	if note := textutil.CollapseSpace(in.AdditionalContext); note != "" {
		lines = append(lines, "Additional context: "+textutil.TruncateWithEllipsis(note, contextPreviewRunes))
	}

	lines = append(lines, fmt.Sprintf("Selected %d experience(s) and %d skill(s)", len(draft.Experiences), len(draft.Skills)))

	covered := len(in.Coverage.Covered) + len(in.Coverage.PartiallyCovered)
	lines = append(lines, fmt.Sprintf("Requirements covered: %d (%d fully, %d partially); not covered: %d",
		covered, len(in.Coverage.Covered), len(in.Coverage.PartiallyCovered), len(in.Coverage.Gaps)))
	return lines
}

func questions(draft *types.Draft) []string {
	if len(draft.Experiences) == 0 {
		return []string{QuestionNoExperiences}
	}
	for _, h := range draft.Highlights() {
		if strings.IndexFunc(h, unicode.IsDigit) >= 0 {
			return []string{}
		}
	}
	return []string{QuestionAddMetrics}
}

// Evidence maps each of the alphabetically first required keywords to up to three
// highlights that mention it as a whole word. Keywords without evidence are omitted;
// nil means none had any.
func Evidence(analysis *types.RequirementAnalysis, draft *types.Draft) map[string][]string {
	if analysis == nil || draft == nil {
		return nil
	}

	keywords := textutil.Dedupe(analysis.RequiredSkills)
	sort.Strings(keywords)
	if len(keywords) > maxEvidenceKeywords {
		keywords = keywords[:maxEvidenceKeywords]
	}

	highlights := draft.Highlights()
	normalized := make([]string, len(highlights))
	for i, h := range highlights {
		normalized[i] = normalize(h)
	}

	evidence := make(map[string][]string)
	for _, kw := range keywords {
		needle := normalize(kw)
		if needle == "" {
			continue
		}
		for i, h := range normalized {
			if textutil.ContainsWord(h, needle) {
				evidence[kw] = append(evidence[kw], highlights[i])
				if len(evidence[kw]) == maxEvidenceItems {
					break
				}
			}
		}
	}
	if len(evidence) == 0 {
		return nil
	}
	return evidence
}

func normalize(s string) string {
	return strings.ToLower(textutil.CollapseSpace(textutil.StripHTML(s)))
}
