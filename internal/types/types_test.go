package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExperience_Identity(t *testing.T) {
	withID := Experience{ID: "exp-1", Title: "Engineer"}
	assert.Equal(t, "exp-1", withID.Identity())

	noID := Experience{Title: "Engineer", Company: "Acme", StartDate: "2021-03"}
	assert.Equal(t, "Engineer@Acme:2021-03", noID.Identity())
}

func TestExperience_Technologies(t *testing.T) {
	exp := Experience{Projects: []Project{
		{Technologies: []string{"Go", "PostgreSQL"}},
		{Technologies: []string{"Go", "Kafka", ""}},
	}}
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kafka"}, exp.Technologies())
}

func TestRequirementAnalysis_AllRequirements(t *testing.T) {
	a := &RequirementAnalysis{
		RequiredSkills:  []string{"python", "django"},
		PreferredSkills: []string{"docker", "python"},
		DomainKeywords:  []string{"fintech"},
	}
	assert.Equal(t, []string{"python", "django", "docker", "fintech"}, a.AllRequirements())

	var nilAnalysis *RequirementAnalysis
	assert.Nil(t, nilAnalysis.AllRequirements())
	assert.True(t, nilAnalysis.IsEmpty())
}

func TestMatchKind_Coverage(t *testing.T) {
	for _, k := range []MatchKind{MatchExact, MatchSynonym, MatchCovers} {
		assert.True(t, k.FullCoverage(), k)
		assert.False(t, k.PartialCoverage(), k)
	}
	for _, k := range []MatchKind{MatchEcosys, MatchRelated, MatchRespSup, MatchDomain, MatchCategory} {
		assert.False(t, k.FullCoverage(), k)
		assert.True(t, k.PartialCoverage(), k)
	}
}

func TestContextAnalysis_IsDirective(t *testing.T) {
	assert.True(t, (&ContextAnalysis{Type: ContextDirective}).IsDirective())
	assert.True(t, (&ContextAnalysis{Type: ContextMixed, Placement: PlacementAdaptationGuidance}).IsDirective())
	assert.False(t, (&ContextAnalysis{Type: ContextAchievement, Placement: PlacementSummary}).IsDirective())

	var nilCtx *ContextAnalysis
	assert.False(t, nilCtx.IsDirective())
}

func TestDraft_Highlights(t *testing.T) {
	d := Draft{Experiences: []Experience{
		{Projects: []Project{{Highlights: []string{"a", "b"}}}},
		{Projects: []Project{{Highlights: []string{"c"}}, {}}},
	}}
	assert.Equal(t, []string{"a", "b", "c"}, d.Highlights())
}
