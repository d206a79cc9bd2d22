package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-tailor/internal/types"
)

func backendAnalysis() *types.RequirementAnalysis {
	return &types.RequirementAnalysis{
		RequiredSkills:   []string{"python", "django", "postgresql"},
		PreferredSkills:  []string{"docker"},
		Responsibilities: []string{"Design and build scalable REST APIs"},
	}
}

func sampleExperiences() []types.Experience {
	return []types.Experience{
		{
			Title:       "PHP Developer",
			Company:     "Legacy Co",
			StartDate:   "2015-03",
			Description: "Maintained a LAMP stack storefront.",
			Projects: []types.Project{
				{Name: "Storefront", Technologies: []string{"PHP", "MySQL"}, Highlights: []string{"Kept the shop online"}},
			},
		},
		{
			Title:       "Senior Backend Engineer",
			Company:     "Modern Tech Inc",
			StartDate:   "2022-06",
			Description: "Built Django services backed by PostgreSQL.",
			Projects: []types.Project{
				{
					Name:         "Billing API",
					Description:  "Designed and built scalable REST APIs in Django.",
					Technologies: []string{"Python", "Django", "PostgreSQL"},
					Highlights: []string{
						"Cut p95 latency by 40% with PostgreSQL query tuning",
						"Led migration of 12 services to Docker",
						"Wrote internal docs",
						"Built Django admin tooling used by 30 support agents",
					},
				},
				{Name: "Design System", Technologies: []string{"Figma"}, Highlights: []string{"Drew icons"}},
				{
					Name:         "Ingest Pipeline",
					Description:  "Python workers feeding PostgreSQL.",
					Technologies: []string{"Python", "Celery"},
					Highlights:   []string{"Processed 2M events per day in Python"},
				},
			},
		},
		{
			Title:     "Data Analyst",
			Company:   "Numbers LLC",
			StartDate: "2019-05",
			Projects: []types.Project{
				{Name: "Dashboards", Technologies: []string{"Python"}, Highlights: []string{"Built dashboards in Python"}},
			},
		},
	}
}

func TestSelect_RanksByRelevance(t *testing.T) {
	result := Select(sampleExperiences(), backendAnalysis(), nil, 2)

	require.Len(t, result.Experiences, 2)
	assert.Equal(t, "Senior Backend Engineer", result.Experiences[0].Title)
	assert.Equal(t, "Data Analyst", result.Experiences[1].Title)

	trace := result.Trace[result.Experiences[0].Identity()]
	assert.Equal(t, 1, trace.SourceIndex)
	assert.Greater(t, trace.Score.Value, result.Trace[result.Experiences[1].Identity()].Score.Value)
}

func TestSelect_Bounds(t *testing.T) {
	result := Select(sampleExperiences(), backendAnalysis(), nil, 4)

	assert.LessOrEqual(t, len(result.Experiences), 4)
	for _, exp := range result.Experiences {
		assert.LessOrEqual(t, len(exp.Projects), MaxProjectsPerExperience)
		for _, p := range exp.Projects {
			assert.LessOrEqual(t, len(p.Highlights), MaxHighlightsPerProject)
		}
	}

	backend := result.Experiences[0]
	require.Len(t, backend.Projects, 2)
	assert.Equal(t, "Billing API", backend.Projects[0].Name)
	assert.Equal(t, "Ingest Pipeline", backend.Projects[1].Name)
	assert.NotContains(t, backend.Projects[0].Highlights, "Wrote internal docs")
}

func TestSelect_HighlightsAreVerbatim(t *testing.T) {
	source := sampleExperiences()
	sourceHighlights := make(map[string]bool)
	for _, exp := range source {
		for _, p := range exp.Projects {
			for _, h := range p.Highlights {
				sourceHighlights[h] = true
			}
		}
	}

	result := Select(source, backendAnalysis(), nil, 4)
	for _, exp := range result.Experiences {
		for _, p := range exp.Projects {
			for _, h := range p.Highlights {
				assert.True(t, sourceHighlights[h], "highlight %q not in source profile", h)
			}
		}
	}
}

func TestSelect_TraceIndicesPointAtSource(t *testing.T) {
	source := sampleExperiences()
	result := Select(source, backendAnalysis(), nil, 4)

	for _, exp := range result.Experiences {
		trace, ok := result.Trace[exp.Identity()]
		require.True(t, ok)
		src := source[trace.SourceIndex]
		assert.Equal(t, src.Title, exp.Title)
		require.Len(t, trace.Projects, len(exp.Projects))
		for i, pt := range trace.Projects {
			srcProject := src.Projects[pt.SourceIndex]
			assert.Equal(t, srcProject.Name, exp.Projects[i].Name)
			assert.Equal(t, srcProject.Technologies, exp.Projects[i].Technologies)
			for j, h := range pt.Highlights {
				assert.Equal(t, srcProject.Highlights[h], exp.Projects[i].Highlights[j])
			}
		}
	}
}

func TestSelect_DoesNotMutateSource(t *testing.T) {
	source := sampleExperiences()
	before := fmt.Sprintf("%+v", source)

	result := Select(source, backendAnalysis(), nil, 1)
	result.Experiences[0].Projects[0].Technologies[0] = "changed"

	assert.Equal(t, before, fmt.Sprintf("%+v", source))
}

func TestSelect_StableTies(t *testing.T) {
	exps := []types.Experience{
		{ID: "a", Title: "Engineer", Company: "A", StartDate: "2020-01"},
		{ID: "b", Title: "Engineer", Company: "B", StartDate: "2020-01"},
		{ID: "c", Title: "Engineer", Company: "C", StartDate: "2020-01"},
	}
	result := Select(exps, &types.RequirementAnalysis{}, nil, 2)

	require.Len(t, result.Experiences, 2)
	assert.Equal(t, "a", result.Experiences[0].ID)
	assert.Equal(t, "b", result.Experiences[1].ID)
}

func TestSelect_MatchedSkillsBoostExperiences(t *testing.T) {
	exps := []types.Experience{
		{ID: "rails", Title: "Engineer", StartDate: "2020-01", Projects: []types.Project{{Name: "x", Technologies: []string{"Ruby"}}}},
		{ID: "flask", Title: "Engineer", StartDate: "2020-01", Projects: []types.Project{{Name: "y", Technologies: []string{"Flask"}}}},
	}
	analysis := &types.RequirementAnalysis{RequiredSkills: []string{"django"}}

	without := Select(exps, analysis, nil, 1)
	assert.Equal(t, "rails", without.Experiences[0].ID)

	mapping := &types.SkillMapping{Selected: []string{"Flask"}}
	with := Select(exps, analysis, mapping, 1)
	assert.Equal(t, "flask", with.Experiences[0].ID)
}

func TestSelect_DefaultsAndEmpty(t *testing.T) {
	empty := Select(nil, backendAnalysis(), nil, 0)
	assert.Empty(t, empty.Experiences)
	assert.NotNil(t, empty.Trace)

	many := make([]types.Experience, 6)
	for i := range many {
		many[i] = types.Experience{ID: fmt.Sprint(i), Title: "Engineer"}
	}
	result := Select(many, backendAnalysis(), nil, 0)
	assert.Len(t, result.Experiences, types.DefaultMaxExperiences)
}

func TestSelect_HighlightsRankedBestFirst(t *testing.T) {
	source := []types.Experience{{
		Title:     "Engineer",
		Company:   "Example",
		StartDate: "2021-01",
		Projects: []types.Project{{
			Name:       "Platform",
			Highlights: []string{"Wrote docs", "", "Led the Python 3 migration"},
		}},
	}}

	result := Select(source, backendAnalysis(), nil, 1)

	require.Len(t, result.Experiences, 1)
	assert.Equal(t, []string{"Led the Python 3 migration", "Wrote docs"}, result.Experiences[0].Projects[0].Highlights)
	trace := result.Trace[result.Experiences[0].Identity()]
	require.Len(t, trace.Projects, 1)
	assert.Equal(t, []int{2, 0}, trace.Projects[0].Highlights)
}
