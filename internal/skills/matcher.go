// Package skills maps profile skills to job requirements through three escalating tiers:
// raw job-text matching, normalized tech-term matching and model-based semantic evaluation.
package skills

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/logger"
	"github.com/jonathan/cv-tailor/internal/textutil"
	"github.com/jonathan/cv-tailor/internal/types"
)

// Confidences for the deterministic tiers.
const (
	rawTextConfidence  = 0.98
	techTermConfidence = 0.9
)

// DefaultConcurrency bounds concurrent semantic evaluations when MatchOptions leaves it unset.
const DefaultConcurrency = 8

// MatchOptions tunes Match.
type MatchOptions struct {
	// RequireSemantic turns unresolved skills into a configuration error when no
	// model is available. When false they are left unmatched.
	RequireSemantic bool
	// Concurrency bounds parallel semantic evaluations.
	Concurrency int
	// OnSemanticFailure is called once per skill whose semantic evaluation failed.
	OnSemanticFailure func(skill string, err error)
	Logger            *zap.Logger
}

// Match maps profileSkills to the requirements in analysis. Tiers 1 and 2 are
// deterministic and never call the model; tier 3 only sees skills they left unresolved.
func Match(
	ctx context.Context,
	client llm.Client,
	profileSkills []string,
	analysis *types.RequirementAnalysis,
	jobText string,
	directive string,
	opts MatchOptions,
) (*types.SkillMapping, error) {
	log := logger.OrNop(opts.Logger)
	requirements := analysis.AllRequirements()
	skills := cleanSkills(profileSkills)

	var matches []types.SkillMatch
	resolved := make(map[string]bool)

	// Tier 1: the skill name appears verbatim in the job description.
	if strings.TrimSpace(jobText) != "" {
		for _, skill := range skills {
			if !textutil.ContainsWord(jobText, skill) {
				continue
			}
			reqs := requirementsFor(skill, requirements)
			if len(reqs) == 0 {
				// named in the posting but not extracted; selected without claiming a requirement
				reqs = []string{""}
			}
			for _, req := range reqs {
				matches = append(matches, types.SkillMatch{
					Skill:       skill,
					Requirement: req,
					Kind:        types.MatchExact,
					Confidence:  rawTextConfidence,
					Explanation: fmt.Sprintf("%s is named in the job description", skill),
				})
			}
			resolved[skill] = true
		}
	}

	// Tier 2: normalized tech-term equality against extracted requirements.
	for _, skill := range skills {
		if resolved[skill] {
			continue
		}
		for _, req := range requirementsFor(skill, requirements) {
			matches = append(matches, types.SkillMatch{
				Skill:       skill,
				Requirement: req,
				Kind:        types.MatchExact,
				Confidence:  techTermConfidence,
				Explanation: fmt.Sprintf("%s is the same technology as %q", skill, req),
			})
			resolved[skill] = true
		}
	}

	// Tier 3: semantic evaluation of whatever is left.
	var remaining []string
	for _, skill := range skills {
		if !resolved[skill] {
			remaining = append(remaining, skill)
		}
	}

	if len(remaining) > 0 && len(requirements) > 0 {
		if llm.IsUsable(client) {
			semantic, err := evaluateSemantic(ctx, client, remaining, requirements, directive, opts, log)
			if err != nil {
				return nil, err
			}
			for _, m := range semantic {
				matches = append(matches, m)
				resolved[m.Skill] = true
			}
		} else if opts.RequireSemantic {
			return nil, &llm.ConfigurationError{Component: "skill matcher semantic tier", Pending: len(remaining)}
		} else {
			log.Info("semantic skill matching skipped",
				zap.String("reason", "llm not configured"),
				zap.Int("unresolved", len(remaining)))
		}
	}

	mapping := &types.SkillMapping{
		Matches: matches,
		Gaps:    findGaps(requirements, matches),
	}
	for _, skill := range skills {
		if resolved[skill] {
			mapping.Selected = append(mapping.Selected, skill)
		}
	}

	log.Debug("skill matching complete",
		zap.Int("matches", len(mapping.Matches)),
		zap.Int("selected", len(mapping.Selected)),
		zap.Int("gaps", len(mapping.Gaps)))
	return mapping, nil
}

// requirementsFor returns the requirements the skill matches under TechTermsMatch.
func requirementsFor(skill string, requirements []string) []string {
	var out []string
	for _, req := range requirements {
		if textutil.TechTermsMatch(skill, req) {
			out = append(out, req)
		}
	}
	return out
}

// findGaps returns requirements that no match references.
func findGaps(requirements []string, matches []types.SkillMatch) []string {
	covered := make(map[string]bool, len(matches))
	for _, m := range matches {
		covered[textutil.CanonicalTerm(m.Requirement)] = true
	}
	gaps := []string{}
	for _, req := range requirements {
		if !covered[textutil.CanonicalTerm(req)] {
			gaps = append(gaps, req)
		}
	}
	return gaps
}

// cleanSkills trims names and drops blanks and case-insensitive duplicates.
func cleanSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
