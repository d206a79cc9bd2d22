package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/prompts"
	"github.com/jonathan/cv-tailor/internal/schemas"
	"github.com/jonathan/cv-tailor/internal/textutil"
	"github.com/jonathan/cv-tailor/internal/types"
)

// skillEvaluation is the model's verdict for one skill.
type skillEvaluation struct {
	Relevant bool   `json:"relevant"`
	Type     string `json:"type"`
	Why      string `json:"why"`
	Match    string `json:"match"`
}

var evaluationKinds = map[string]types.MatchKind{
	"direct":      types.MatchExact,
	"foundation":  types.MatchEcosys,
	"alternative": types.MatchEcosys,
	"related":     types.MatchRelated,
}

var evaluationConfidence = map[string]float64{
	"direct":      0.95,
	"foundation":  0.85,
	"alternative": 0.75,
	"related":     0.65,
}

// EvaluationError reports a failed semantic evaluation of one skill.
type EvaluationError struct {
	Skill string
	Cause error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("semantic evaluation of %q failed: %v", e.Skill, e.Cause)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

type evaluationOutcome struct {
	match *types.SkillMatch
	err   error
}

// evaluateSemantic evaluates every skill concurrently. A failed skill is logged and
// skipped; only cancellation of ctx itself fails the whole tier.
func evaluateSemantic(
	ctx context.Context,
	client llm.Client,
	skills []string,
	requirements []string,
	directive string,
	opts MatchOptions,
	log *zap.Logger,
) ([]types.SkillMatch, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	requirementList := formatRequirements(requirements)
	outcomes := make([]evaluationOutcome, len(skills))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, skill := range skills {
		g.Go(func() error {
			m, err := evaluateSkill(ctx, client, skill, requirements, requirementList, directive)
			outcomes[i] = evaluationOutcome{match: m, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("semantic skill matching interrupted: %w", err)
	}

	var matches []types.SkillMatch
	failures := 0
	for i, o := range outcomes {
		if o.err != nil {
			failures++
			evalErr := &EvaluationError{Skill: skills[i], Cause: o.err}
			log.Warn("semantic skill evaluation failed", zap.String("skill", skills[i]), zap.Error(o.err))
			if opts.OnSemanticFailure != nil {
				opts.OnSemanticFailure(skills[i], evalErr)
			}
			continue
		}
		if o.match != nil {
			matches = append(matches, *o.match)
		}
	}

	log.Debug("semantic skill matching complete",
		zap.Int("evaluated", len(skills)),
		zap.Int("matched", len(matches)),
		zap.Int("failed", failures))
	return matches, nil
}

// evaluateSkill asks the model about one skill. It returns nil, nil when the skill is not relevant.
func evaluateSkill(
	ctx context.Context,
	client llm.Client,
	skill string,
	requirements []string,
	requirementList string,
	directive string,
) (*types.SkillMatch, error) {
	data := map[string]string{
		"Skill":        skill,
		"Requirements": requirementList,
	}
	if d := strings.TrimSpace(directive); d != "" {
		data["Directive"] = prompts.Render("matching.json", "directive-line", map[string]string{"Directive": d})
	}

	response, err := client.GenerateText(ctx, prompts.Render("matching.json", "evaluate-skill", data), prompts.MustGet("matching.json", "system"))
	if err != nil {
		return nil, err
	}

	raw := llm.ExtractJSONObject(response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}
	if err := schemas.Validate(schemas.SkillEvaluation, raw); err != nil {
		return nil, err
	}

	var eval skillEvaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation: %w", err)
	}
	if !eval.Relevant || strings.TrimSpace(eval.Match) == "" {
		return nil, nil
	}

	return &types.SkillMatch{
		Skill:       skill,
		Requirement: resolveRequirement(eval.Match, requirements),
		Kind:        evaluationKinds[eval.Type],
		Confidence:  evaluationConfidence[eval.Type],
		Explanation: strings.TrimSpace(eval.Why),
	}, nil
}

// resolveRequirement maps the model's free-text match back onto an extracted requirement.
func resolveRequirement(match string, requirements []string) string {
	canonical := textutil.CanonicalTerm(match)
	for _, req := range requirements {
		if textutil.CanonicalTerm(req) == canonical {
			return req
		}
	}
	for _, req := range requirements {
		if textutil.TechTermsMatch(match, req) {
			return req
		}
	}
	return canonical
}

func formatRequirements(requirements []string) string {
	var sb strings.Builder
	for _, r := range requirements {
		sb.WriteString("- ")
		sb.WriteString(r)
		sb.WriteString("\n")
	}
	return sb.String()
}
