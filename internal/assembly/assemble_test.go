package assembly

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-tailor/internal/types"
)

func mappingFixture() *types.SkillMapping {
	return &types.SkillMapping{
		Matches: []types.SkillMatch{
			{Skill: "Python", Requirement: "python", Kind: types.MatchExact, Confidence: 0.98, Explanation: "Python is named in the job description"},
			{Skill: "Flask", Requirement: "django", Kind: types.MatchEcosys, Confidence: 0.75, Explanation: "Both are Python web frameworks"},
			{Skill: "Flask", Requirement: "rest", Kind: types.MatchRelated, Confidence: 0.65, Explanation: "Flask serves REST APIs"},
			{Skill: "Postgres", Requirement: "postgresql", Kind: types.MatchExact, Confidence: 0.9, Explanation: "same technology"},
			{Skill: "MySQL", Requirement: "postgresql", Kind: types.MatchEcosys, Confidence: 0.75, Explanation: "relational database"},
		},
		Selected: []string{"Python", "Flask", "Postgres", "MySQL"},
		Gaps:     []string{"docker"},
	}
}

func TestCoverage(t *testing.T) {
	summary := Coverage(mappingFixture())

	assert.Equal(t, []string{"python", "postgresql"}, summary.Covered)
	assert.Equal(t, []string{"django", "rest"}, summary.PartiallyCovered)
	assert.Equal(t, []string{"docker"}, summary.Gaps)
	assert.Equal(t, "[Ecosystem] Both are Python web frameworks; [Related] Flask serves REST APIs",
		summary.Justifications["Flask"])
	assert.Equal(t, "[Exact] Python is named in the job description", summary.Justifications["Python"])
}

func TestCoverage_NilMapping(t *testing.T) {
	summary := Coverage(nil)
	assert.Empty(t, summary.Covered)
	assert.NotNil(t, summary.Gaps)
	assert.Nil(t, summary.Justifications)
}

func TestCoverage_GapIsNeverCovered(t *testing.T) {
	summary := Coverage(&types.SkillMapping{
		Matches:  []types.SkillMatch{{Skill: "Python", Requirement: "python", Kind: types.MatchExact}},
		Selected: []string{"Python"},
		Gaps:     []string{"node.js"},
	})
	assert.Contains(t, summary.Gaps, "node.js")
	assert.NotContains(t, summary.Covered, "node.js")
}

func TestCoverage_OnlyExtractedRequirements(t *testing.T) {
	summary := Coverage(&types.SkillMapping{
		Matches: []types.SkillMatch{
			{Skill: "Python", Requirement: "python", Kind: types.MatchExact},
			{Skill: "Kafka", Kind: types.MatchExact, Explanation: "Kafka is named in the job description"},
		},
		Selected: []string{"Python", "Kafka"},
	})
	assert.Equal(t, []string{"python"}, summary.Covered)
	assert.Empty(t, summary.PartiallyCovered)
	assert.Equal(t, "[Exact] Kafka is named in the job description", summary.Justifications["Kafka"])
}

func profileFixture() *types.Profile {
	return &types.Profile{
		PersonalInfo: types.PersonalInfo{Name: "Ada Lovelace", Summary: "Backend engineer.", Links: []string{"https://example.com"}},
		Education: []types.Education{
			{Institution: "Art School", Degree: "BA", Field: "Painting"},
			{Institution: "Tech University", Degree: "BSc", Field: "Computer Science", Highlights: []string{"Thesis on Python compilers"}},
			{Institution: "Bootcamp", Field: "Django web development"},
		},
		Skills: []string{"Python", "Flask"},
	}
}

func TestAssemble(t *testing.T) {
	adapted := &types.AdaptedContent{Experiences: []types.Experience{
		{Title: "Engineer", Company: "Modern Tech Inc", Projects: []types.Project{{Name: "API", Highlights: []string{"Built APIs"}}}},
	}}
	analysis := &types.RequirementAnalysis{RequiredSkills: []string{"python", "django"}}

	result := Assemble(Input{
		Profile:       profileFixture(),
		Adapted:       adapted,
		Mapping:       mappingFixture(),
		Analysis:      analysis,
		Context:       &types.ContextAnalysis{Type: types.ContextAchievement, Placement: types.PlacementProjectHighlight, SuggestedText: "Won the 2023 hackathon"},
		TargetCompany: " Acme ",
		TargetRole:    "Backend Engineer",
	})

	draft := result.Draft
	assert.Equal(t, "Ada Lovelace", draft.PersonalInfo.Name)
	assert.Equal(t, "Acme", draft.TargetCompany)
	assert.Equal(t, "Backend Engineer", draft.TargetRole)
	assert.Equal(t, []string{"Python", "Flask", "Postgres", "MySQL"}, draft.Skills)
	require.Len(t, draft.Education, 2)
	assert.Equal(t, "Tech University", draft.Education[0].Institution)
	assert.Equal(t, "Bootcamp", draft.Education[1].Institution)

	assert.Equal(t, []string{"Built APIs", "Won the 2023 hackathon"}, draft.Experiences[0].Projects[0].Highlights)
	assert.Equal(t, []string{"Built APIs"}, adapted.Experiences[0].Projects[0].Highlights, "adapted content must not change")
	require.NotNil(t, result.Incorporation)
	assert.Len(t, result.Incorporation.Highlights, 1)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{"python", "postgresql"}, result.Coverage.Covered)
}

func TestAssemble_SkillFallback(t *testing.T) {
	profile := &types.Profile{}
	for i := 0; i < 12; i++ {
		profile.Skills = append(profile.Skills, fmt.Sprintf("skill-%d", i))
	}

	result := Assemble(Input{Profile: profile, Mapping: &types.SkillMapping{}})
	assert.Len(t, result.Draft.Skills, FallbackSkillCount)
	assert.Equal(t, "skill-0", result.Draft.Skills[0])
	assert.Empty(t, result.Draft.Experiences)
}

func TestAssemble_DirectiveIsNotInserted(t *testing.T) {
	result := Assemble(Input{
		Profile: profileFixture(),
		Context: &types.ContextAnalysis{Type: types.ContextDirective, Placement: types.PlacementAdaptationGuidance, SuggestedText: "Make it enterprise-focused"},
	})
	assert.Equal(t, "Backend engineer.", result.Draft.PersonalInfo.Summary)
	assert.Nil(t, result.Incorporation)
}

func TestAssemble_SummaryContext(t *testing.T) {
	result := Assemble(Input{
		Profile: profileFixture(),
		Context: &types.ContextAnalysis{Type: types.ContextStatement, Placement: types.PlacementSummary, SuggestedText: "Rated top 2% of coders"},
	})
	assert.Equal(t, "Backend engineer.\n\nRated top 2% of coders", result.Draft.PersonalInfo.Summary)
	assert.Equal(t, "Backend engineer.", profileFixture().PersonalInfo.Summary)
}
