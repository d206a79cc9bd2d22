package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-tailor/internal/types"
)

func draftWithHighlights(highlights ...string) *types.Draft {
	return &types.Draft{
		TargetCompany: "Acme",
		TargetRole:    "Backend Engineer",
		Experiences: []types.Experience{
			{Title: "Engineer", Projects: []types.Project{{Name: "API", Highlights: highlights}}},
		},
		Skills: []string{"Python", "Django"},
	}
}

func TestBuild_Summary(t *testing.T) {
	long := strings.Repeat("context ", 30)
	rv := Build(Input{
		Draft:             draftWithHighlights("Built APIs"),
		Coverage:          types.CoverageSummary{Covered: []string{"python", "django"}, PartiallyCovered: []string{"rest"}, Gaps: []string{"docker"}},
		Seniority:         "Senior",
		AdditionalContext: long,
	})

	require.Len(t, rv.Summary, 4)
	assert.Equal(t, "Tailored for Backend Engineer (Senior) at Acme", rv.Summary[0])
	assert.True(t, strings.HasPrefix(rv.Summary[1], "Additional context: context"))
	assert.True(t, strings.HasSuffix(rv.Summary[1], "..."))
	assert.LessOrEqual(t, len([]rune(strings.TrimPrefix(rv.Summary[1], "Additional context: "))), 103)
	assert.Equal(t, "Selected 1 experience(s) and 2 skill(s)", rv.Summary[2])
	assert.Equal(t, "Requirements covered: 3 (2 fully, 1 partially); not covered: 1", rv.Summary[3])
}

func TestBuild_Questions(t *testing.T) {
	assert.Equal(t, []string{QuestionAddMetrics}, Build(Input{Draft: draftWithHighlights("Built APIs", "Led migration")}).Questions)
	assert.Empty(t, Build(Input{Draft: draftWithHighlights("Built APIs", "Cut latency by 40%")}).Questions)
	assert.Equal(t, []string{QuestionNoExperiences}, Build(Input{Draft: &types.Draft{}}).Questions)
}

func TestEvidence(t *testing.T) {
	analysis := &types.RequirementAnalysis{
		RequiredSkills: []string{"python", "django", "kubernetes"},
	}
	draft := draftWithHighlights(
		"Built Django admin in <b>Python</b>",
		"Ported   PYTHON 2 services",
		"Python data jobs",
		"Python scripts",
		"Wrote docs",
	)

	evidence := Evidence(analysis, draft)
	require.NotNil(t, evidence)
	assert.Equal(t, []string{"Built Django admin in <b>Python</b>"}, evidence["django"])
	assert.Equal(t, []string{"Built Django admin in <b>Python</b>", "Ported   PYTHON 2 services", "Python data jobs"}, evidence["python"])
	_, ok := evidence["kubernetes"]
	assert.False(t, ok)
}

func TestEvidence_OnlyFirstEightKeywords(t *testing.T) {
	analysis := &types.RequirementAnalysis{
		RequiredSkills: []string{"zeta", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"},
	}
	evidence := Evidence(analysis, draftWithHighlights("uses zeta and a1"))
	assert.Equal(t, map[string][]string{"a1": {"uses zeta and a1"}}, evidence)
}

func TestEvidence_NoneFound(t *testing.T) {
	analysis := &types.RequirementAnalysis{RequiredSkills: []string{"rust"}}
	assert.Nil(t, Evidence(analysis, draftWithHighlights("Built APIs")))
	assert.Nil(t, Evidence(nil, draftWithHighlights("Built APIs")))
}

func TestEvidence_MatchesWholeWordsOnly(t *testing.T) {
	analysis := &types.RequirementAnalysis{RequiredSkills: []string{"go", "c++"}}
	draft := draftWithHighlights(
		"Delivered good outcomes for Google",
		"Rewrote the scheduler in Go",
		"Tuned C++ allocators",
	)

	evidence := Evidence(analysis, draft)
	assert.Equal(t, []string{"Rewrote the scheduler in Go"}, evidence["go"])
	assert.Equal(t, []string{"Tuned C++ allocators"}, evidence["c++"])
}
