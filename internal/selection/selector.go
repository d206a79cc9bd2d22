// Package selection picks the profile content most relevant to a job: a bounded set of
// experiences, and within each the best projects and highlights.
package selection

import (
	"github.com/jonathan/cv-tailor/internal/ranking"
	"github.com/jonathan/cv-tailor/internal/types"
)

// Per-item bounds applied inside each selected experience.
const (
	MaxProjectsPerExperience = 2
	MaxHighlightsPerProject  = 3
)

// Select scores every experience against the analysis and keeps the top maxExperiences,
// ties going to the earlier profile entry. Skills selected by the matcher count as
// preferred keywords. A non-positive maxExperiences uses types.DefaultMaxExperiences.
//
// Returned experiences are rebuilt from the source with only the kept projects and
// highlights; no field is synthesized.
func Select(
	experiences []types.Experience,
	analysis *types.RequirementAnalysis,
	mapping *types.SkillMapping,
	maxExperiences int,
) *types.SelectionResult {
	if maxExperiences <= 0 {
		maxExperiences = types.DefaultMaxExperiences
	}

	var selectedSkills []string
	if mapping != nil {
		selectedSkills = mapping.Selected
	}
	spec := ranking.SpecFromAnalysis(analysis, selectedSkills...)

	result := &types.SelectionResult{
		Experiences: []types.Experience{},
		Trace:       make(map[string]types.ExperienceTrace),
	}
	if len(experiences) == 0 {
		return result
	}

	scores := make([]types.Score, len(experiences))
	for i := range experiences {
		exp := &experiences[i]
		scores[i] = ranking.ScoreItem(
			[]string{exp.Title, exp.Company, exp.Description},
			exp.Technologies(),
			exp.StartDate,
			spec,
		)
	}

	for _, idx := range top(ranking.RankByScore(scores), maxExperiences) {
		source := &experiences[idx]
		exp, projectTrace := selectProjects(source, spec)
		result.Experiences = append(result.Experiences, exp)
		result.Trace[source.Identity()] = types.ExperienceTrace{
			SourceIndex: idx,
			Score:       scores[idx],
			Projects:    projectTrace,
		}
	}
	return result
}

// selectProjects returns a copy of exp holding only its best projects, each trimmed to its best highlights.
func selectProjects(exp *types.Experience, spec ranking.ScoreSpec) (types.Experience, []types.ProjectTrace) {
	out := *exp
	out.Projects = nil
	if len(exp.Projects) == 0 {
		return out, nil
	}

	scores := make([]types.Score, len(exp.Projects))
	for i := range exp.Projects {
		p := &exp.Projects[i]
		parts := append([]string{p.Name, p.Description}, p.Highlights...)
		scores[i] = ranking.ScoreItem(parts, p.Technologies, exp.StartDate, spec)
	}

	var trace []types.ProjectTrace
	for _, idx := range top(ranking.RankByScore(scores), MaxProjectsPerExperience) {
		source := &exp.Projects[idx]
		project := types.Project{
			Name:         source.Name,
			Description:  source.Description,
			Technologies: append([]string(nil), source.Technologies...),
		}
		kept := selectHighlights(source.Highlights, exp.StartDate, spec)
		for _, h := range kept {
			project.Highlights = append(project.Highlights, source.Highlights[h])
		}
		out.Projects = append(out.Projects, project)
		trace = append(trace, types.ProjectTrace{SourceIndex: idx, Highlights: kept})
	}
	return out, trace
}

// selectHighlights returns the source indices of the best non-empty highlights, best first.
func selectHighlights(highlights []string, anchor string, spec ranking.ScoreSpec) []int {
	var candidates []int
	var scores []types.Score
	for i, h := range highlights {
		if h == "" {
			continue
		}
		candidates = append(candidates, i)
		scores = append(scores, ranking.ScoreItem([]string{h}, nil, anchor, spec))
	}

	ranked := top(ranking.RankByScore(scores), MaxHighlightsPerProject)
	kept := make([]int, len(ranked))
	for i, r := range ranked {
		kept[i] = candidates[r]
	}
	return kept
}

func top(order []int, n int) []int {
	if len(order) > n {
		return order[:n]
	}
	return order
}
