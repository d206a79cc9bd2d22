package ranking

import (
	"github.com/jonathan/cv-tailor/internal/types"
)

// DefaultMaxEducation bounds the education entries kept in a draft.
const DefaultMaxEducation = 2

// educationAnchor is the fixed recency anchor for education entries, so dates never decide their order.
const educationAnchor = midCutoff

// EducationScore pairs an education entry's index with its score.
type EducationScore struct {
	Index int
	Score types.Score
}

// ScoreEducation scores every entry with the shared scoring function.
func ScoreEducation(education []types.Education, spec ScoreSpec) []EducationScore {
	scores := make([]EducationScore, len(education))
	for i, edu := range education {
		parts := []string{edu.Degree, edu.Field, edu.Institution, edu.Description}
		parts = append(parts, edu.Highlights...)
		scores[i] = EducationScore{
			Index: i,
			Score: ScoreItem(nonEmpty(parts), nil, educationAnchor, spec),
		}
	}
	return scores
}

// SelectEducation returns up to max entries (DefaultMaxEducation when max <= 0),
// best first, copied verbatim from the profile.
func SelectEducation(education []types.Education, spec ScoreSpec, max int) []types.Education {
	if max <= 0 {
		max = DefaultMaxEducation
	}
	if len(education) == 0 {
		return nil
	}

	scored := ScoreEducation(education, spec)
	scores := make([]types.Score, len(scored))
	for i, s := range scored {
		scores[i] = s.Score
	}

	var selected []types.Education
	for _, idx := range RankByScore(scores) {
		if len(selected) == max {
			break
		}
		selected = append(selected, education[idx])
	}
	return selected
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
