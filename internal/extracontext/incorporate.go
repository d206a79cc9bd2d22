package extracontext

import (
	"strings"

	"github.com/jonathan/cv-tailor/internal/types"
)

const paragraphBreak = "\n\n"

// Plan turns a classified note into edits against the selected experiences.
// Directives and adaptation guidance produce nil; they already steered earlier stages.
func Plan(analysis *types.ContextAnalysis, experiences []types.Experience) *types.ContextIncorporation {
	if analysis == nil || analysis.IsDirective() {
		return nil
	}
	text := strings.TrimSpace(analysis.SuggestedText)
	if text == "" {
		return nil
	}

	switch analysis.Placement {
	case types.PlacementProjectHighlight:
		for i := range experiences {
			if len(experiences[i].Projects) > 0 {
				return &types.ContextIncorporation{
					Highlights: []types.HighlightInsert{{ExperienceIndex: i, ProjectIndex: 0, Text: text}},
				}
			}
		}
	case types.PlacementExperienceDescription:
		if len(experiences) > 0 {
			return &types.ContextIncorporation{
				Descriptions: map[int]string{0: joinParagraphs(experiences[0].Description, text)},
			}
		}
	}
	return &types.ContextIncorporation{Summary: text}
}

// Apply performs the edits in inc on draft. Entries pointing outside the draft's experiences
// or projects are skipped; the number skipped is returned.
func Apply(draft *types.Draft, inc *types.ContextIncorporation) int {
	if draft == nil || inc.IsEmpty() {
		return 0
	}

	skipped := 0
	if inc.Summary != "" {
		draft.PersonalInfo.Summary = joinParagraphs(draft.PersonalInfo.Summary, inc.Summary)
	}

	for _, h := range inc.Highlights {
		if h.ExperienceIndex < 0 || h.ExperienceIndex >= len(draft.Experiences) {
			skipped++
			continue
		}
		exp := &draft.Experiences[h.ExperienceIndex]
		if h.ProjectIndex < 0 || h.ProjectIndex >= len(exp.Projects) {
			skipped++
			continue
		}
		project := &exp.Projects[h.ProjectIndex]
		project.Highlights = append(project.Highlights, h.Text)
	}

	for idx, description := range inc.Descriptions {
		if idx < 0 || idx >= len(draft.Experiences) {
			skipped++
			continue
		}
		draft.Experiences[idx].Description = description
	}
	return skipped
}

func joinParagraphs(existing, addition string) string {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return addition
	}
	return existing + paragraphBreak + addition
}
