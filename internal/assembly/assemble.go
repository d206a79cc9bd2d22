// Package assembly composes the final draft from the pipeline's intermediate results
// and reports how well it covers the job's requirements.
package assembly

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-tailor/internal/extracontext"
	"github.com/jonathan/cv-tailor/internal/ranking"
	"github.com/jonathan/cv-tailor/internal/types"
)

// FallbackSkillCount is how many profile skills a draft lists when matching selected none.
const FallbackSkillCount = 10

// Input gathers everything Assemble reads. Nothing in it is modified.
type Input struct {
	Profile       *types.Profile
	Adapted       *types.AdaptedContent
	Mapping       *types.SkillMapping
	Analysis      *types.RequirementAnalysis
	Context       *types.ContextAnalysis
	TargetCompany string
	TargetRole    string
	MaxEducation  int
}

// Result is the assembled draft with its coverage report.
type Result struct {
	Draft         *types.Draft
	Coverage      types.CoverageSummary
	Incorporation *types.ContextIncorporation
	Warnings      []string
}

// Assemble builds the draft: personal info, adapted experiences, the best education entries
// and the matched skills, then folds in any content from the additional context.
func Assemble(in Input) *Result {
	profile := in.Profile
	if profile == nil {
		profile = &types.Profile{}
	}

	var selectedSkills []string
	if in.Mapping != nil {
		selectedSkills = in.Mapping.Selected
	}

	draft := &types.Draft{
		PersonalInfo:  profile.PersonalInfo,
		TargetCompany: strings.TrimSpace(in.TargetCompany),
		TargetRole:    strings.TrimSpace(in.TargetRole),
		Experiences:   []types.Experience{},
		Education: ranking.SelectEducation(profile.Education,
			ranking.SpecFromAnalysis(in.Analysis, selectedSkills...), in.MaxEducation),
		Skills: draftSkills(selectedSkills, profile.Skills),
	}
	draft.PersonalInfo.Links = append([]string(nil), profile.PersonalInfo.Links...)
	if in.Adapted != nil {
		draft.Experiences = types.CloneExperiences(in.Adapted.Experiences)
	}

	result := &Result{
		Draft:    draft,
		Coverage: Coverage(in.Mapping),
	}

	result.Incorporation = extracontext.Plan(in.Context, draft.Experiences)
	if skipped := extracontext.Apply(draft, result.Incorporation); skipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d additional context insertion(s) pointed outside the selected content and were ignored", skipped))
	}
	return result
}

func draftSkills(selected, profileSkills []string) []string {
	if len(selected) > 0 {
		return append([]string(nil), selected...)
	}
	fallback := make([]string, 0, FallbackSkillCount)
	for _, s := range profileSkills {
		if len(fallback) == FallbackSkillCount {
			break
		}
		if s = strings.TrimSpace(s); s != "" {
			fallback = append(fallback, s)
		}
	}
	return fallback
}
