package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/llm/llmtest"
	"github.com/jonathan/cv-tailor/internal/observability"
	"github.com/jonathan/cv-tailor/internal/pipeline/steps"
	"github.com/jonathan/cv-tailor/internal/types"
)

const backendJD = `Senior Backend Engineer (Python/Django)
Requirements:
- 5+ years of experience with Python and Django
- Experience with PostgreSQL and REST APIs
- Build and maintain scalable backend services
Nice to have:
- Docker and Kubernetes`

func backendProfile() types.Profile {
	return types.Profile{
		PersonalInfo: types.PersonalInfo{Name: "Dana Reyes", Summary: "Backend engineer."},
		Skills:       []string{"Django", "Python", "PostgreSQL", "Node.js", "React", "MongoDB", "LAMP"},
		Experiences: []types.Experience{
			{
				Title:       "PHP Developer",
				Company:     "Agency Co",
				StartDate:   "2014-01",
				EndDate:     "2016-12",
				Description: "Built brochure sites on a LAMP stack.",
				Projects: []types.Project{{
					Name:         "Client sites",
					Technologies: []string{"PHP", "MySQL"},
					Highlights:   []string{"Delivered client websites"},
				}},
			},
			{
				Title:       "Senior Backend Engineer",
				Company:     "Modern Tech Inc",
				StartDate:   "2019-03",
				Description: "Own the Django services behind the billing platform.",
				Projects: []types.Project{{
					Name:         "Billing API",
					Description:  "Django REST service on PostgreSQL",
					Technologies: []string{"Python", "Django", "PostgreSQL"},
					Highlights:   []string{"Cut invoice latency by 40% with query tuning", "Led the Python 3 migration"},
				}},
			},
		},
		Education: []types.Education{{Institution: "State University", Degree: "BSc", Field: "Computer Science"}},
	}
}

func backendRequest(style types.Style) *types.TailorRequest {
	return &types.TailorRequest{
		Profile:        backendProfile(),
		JobDescription: backendJD,
		TargetCompany:  "Acme",
		TargetRole:     "Backend Engineer",
		Style:          style,
		MaxExperiences: 1,
	}
}

// scriptedFake answers skill evaluations as irrelevant, writes a short cover letter and
// fails requirement analysis so the heuristic runs.
func scriptedFake() *llmtest.Fake {
	return &llmtest.Fake{
		GenerateFunc: func(prompt, _ string) (string, error) {
			switch {
			case strings.Contains(prompt, "Candidate skill:"):
				return `{"relevant": false, "type": "related", "why": "unrelated", "match": ""}`, nil
			case strings.Contains(prompt, "cover letter"):
				return "Dear Acme team,\n\nI build Django services.", nil
			default:
				return "", errors.New("analysis unavailable")
			}
		},
	}
}

func TestRun_SelectAndReorderWithoutModel(t *testing.T) {
	resp, err := Run(context.Background(), Deps{LLM: &llmtest.Fake{Unconfigured: true}}, backendRequest(types.StyleSelectAndReorder))
	require.NoError(t, err)

	require.Len(t, resp.Draft.Experiences, 1)
	assert.Equal(t, "Senior Backend Engineer", resp.Draft.Experiences[0].Title)
	assert.Equal(t, "Modern Tech Inc", resp.Draft.Experiences[0].Company)
	assert.Equal(t, []string{"Django", "Python", "PostgreSQL"}, resp.Draft.Skills)
	assert.NotContains(t, resp.Draft.Skills, "LAMP")

	assert.Equal(t, "Acme", resp.Draft.TargetCompany)
	assert.Equal(t, "Backend Engineer", resp.Draft.TargetRole)
	assert.Equal(t, "Dana Reyes", resp.Draft.PersonalInfo.Name)
	require.Len(t, resp.Draft.Education, 1)

	assert.ElementsMatch(t, []string{"python", "django", "postgresql"}, resp.Coverage.Covered)
	assert.Contains(t, resp.Coverage.Gaps, "docker")
	assert.NotNil(t, resp.Warnings)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "heuristic", resp.Analysis.Source)
	assert.Contains(t, resp.Summary, "Tailored for Backend Engineer at Acme")
	assert.Empty(t, resp.Questions, "a highlight with a figure suppresses the metrics question")
}

func TestRun_SelectionDoesNotMutateProfile(t *testing.T) {
	req := backendRequest(types.StyleSelectAndReorder)
	before := backendProfile()

	_, err := Run(context.Background(), Deps{}, req)
	require.NoError(t, err)
	assert.Equal(t, before, req.Profile)
}

func TestRun_GapIsReported(t *testing.T) {
	req := &types.TailorRequest{
		Profile: types.Profile{
			Skills: []string{"Python"},
			Experiences: []types.Experience{{
				Title:       "Engineer",
				Company:     "Example",
				Description: "Python services",
			}},
		},
		JobDescription: "Requirements:\n- Python and Node.js",
	}

	resp, err := Run(context.Background(), Deps{}, req)
	require.NoError(t, err)
	assert.Contains(t, resp.Coverage.Gaps, "node.js")
	assert.NotContains(t, resp.Coverage.Covered, "node.js")
	assert.Contains(t, resp.Coverage.Covered, "python")
}

func TestRun_LLMTailor(t *testing.T) {
	fake := scriptedFake()
	req := backendRequest(types.StyleLLMTailor)
	req.IncludeCoverLetter = true

	resp, err := Run(context.Background(), Deps{LLM: fake}, req)
	require.NoError(t, err)

	require.Len(t, resp.Draft.Experiences, 1)
	exp := resp.Draft.Experiences[0]
	assert.Equal(t, "Own the Django services behind the billing platform.", exp.Description)
	// highlights are ranked, and "Led" adds a seniority signal to the Python keyword
	assert.Equal(t, []string{"Led the Python 3 migration", "Cut invoice latency by 40% with query tuning"}, exp.Projects[0].Highlights)
	assert.Equal(t, "Dear Acme team,\n\nI build Django services.", resp.CoverLetter)

	// description, project description and both highlights
	assert.Len(t, fake.RewriteCalls(), 4)
	assert.Empty(t, resp.Warnings)
}

func TestRun_RewriteBulletsWarnsOnFabrication(t *testing.T) {
	fake := scriptedFake()
	fake.RewriteFunc = func(original, _ string) (string, error) {
		if strings.HasPrefix(original, "Led") {
			return "Led the Python 3 migration across 12 services", nil
		}
		return original, nil
	}

	resp, err := Run(context.Background(), Deps{LLM: fake}, backendRequest(types.StyleRewriteBullets))
	require.NoError(t, err)

	assert.Equal(t, "Led the Python 3 migration", resp.Draft.Experiences[0].Projects[0].Highlights[0])
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "Kept original experiences[0].projects[0].highlights[0]")
	// highlights only
	assert.Len(t, fake.RewriteCalls(), 2)
}

func TestRun_UnconfiguredModelFailsLLMStyles(t *testing.T) {
	req := backendRequest(types.StyleLLMTailor)
	// a skill left for the semantic tier
	req.Profile.Skills = append(req.Profile.Skills, "Flask")

	_, err := Run(context.Background(), Deps{LLM: &llmtest.Fake{Unconfigured: true}}, req)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, steps.MatchSkills, stageErr.Stage)
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestRun_UnconfiguredModelFailsAdaptation(t *testing.T) {
	req := backendRequest(types.StyleRewriteBullets)
	req.Profile.Skills = []string{"Python", "Django"}

	_, err := Run(context.Background(), Deps{}, req)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, steps.AdaptContent, stageErr.Stage)
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestRun_ValidationError(t *testing.T) {
	req := backendRequest(types.StyleSelectAndReorder)
	req.JobDescription = ""

	var events []ProgressEvent
	_, err := Run(context.Background(), Deps{OnProgress: func(e ProgressEvent) { events = append(events, e) }}, req)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, steps.ValidateRequest, stageErr.Stage)
	assert.Empty(t, events)
}

func TestRun_NilRequest(t *testing.T) {
	_, err := Run(context.Background(), Deps{}, nil)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, steps.ValidateRequest, stageErr.Stage)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Deps{}, backendRequest(types.StyleSelectAndReorder))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ProgressEventsInOrder(t *testing.T) {
	var events []ProgressEvent
	req := backendRequest(types.StyleLLMTailor)
	req.IncludeCoverLetter = true

	resp, err := Run(context.Background(), Deps{
		LLM:        scriptedFake(),
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	}, req)
	require.NoError(t, err)

	var stages []string
	for _, e := range events {
		stages = append(stages, e.Stage)
		assert.Equal(t, resp.RequestID, e.RequestID)
		assert.NotEmpty(t, e.Message)
		assert.Equal(t, steps.Registry[e.Stage].Category, e.Category)
	}
	assert.Equal(t, steps.Order, stages)
}

func TestRun_CoverLetterSkippedUnlessRequested(t *testing.T) {
	var stages []string
	resp, err := Run(context.Background(), Deps{
		LLM:        scriptedFake(),
		OnProgress: func(e ProgressEvent) { stages = append(stages, e.Stage) },
	}, backendRequest(types.StyleLLMTailor))
	require.NoError(t, err)

	assert.Empty(t, resp.CoverLetter)
	assert.NotContains(t, stages, steps.WriteCoverLetter)
}

func TestRun_DirectiveContextIsNotInsertedIntoDraft(t *testing.T) {
	req := backendRequest(types.StyleSelectAndReorder)
	req.AdditionalContext = "Please emphasize my leadership experience"

	resp, err := Run(context.Background(), Deps{}, req)
	require.NoError(t, err)

	require.NotNil(t, resp.Context)
	assert.Equal(t, types.ContextDirective, resp.Context.Type)
	assert.Equal(t, "Backend engineer.", resp.Draft.PersonalInfo.Summary)
	for _, exp := range resp.Draft.Experiences {
		assert.NotContains(t, exp.Description, "leadership")
	}
	assert.Contains(t, resp.Summary, "Additional context: Please emphasize my leadership experience")
}

func TestRun_ContentContextIsInserted(t *testing.T) {
	req := backendRequest(types.StyleSelectAndReorder)
	req.AdditionalContext = "Speaker at PyCon 2023 on Django performance"

	resp, err := Run(context.Background(), Deps{}, req)
	require.NoError(t, err)

	require.NotNil(t, resp.Context)
	assert.NotEqual(t, types.ContextDirective, resp.Context.Type)
	assert.Contains(t, resp.Draft.PersonalInfo.Summary, "Speaker at PyCon 2023")
}

func TestRun_RecordsMetrics(t *testing.T) {
	metrics := observability.NewMetrics()

	_, err := Run(context.Background(), Deps{Metrics: metrics}, backendRequest(types.StyleSelectAndReorder))
	require.NoError(t, err)
	_, err = Run(context.Background(), Deps{Metrics: metrics}, &types.TailorRequest{})
	require.Error(t, err)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)

	requests := counterValues(families, "cv_tailor_tailor_requests_total")
	assert.Equal(t, 1.0, requests["outcome=success,style=select_and_reorder"])
	assert.Equal(t, 1.0, requests["outcome=error,style=select_and_reorder"])

	var stageSeries int
	for _, f := range families {
		if f.GetName() == "cv_tailor_stage_duration_seconds" {
			stageSeries = len(f.GetMetric())
		}
	}
	// every stage of the successful run plus the failed validation
	assert.Equal(t, len(steps.Order), stageSeries)
}

func counterValues(families []*dto.MetricFamily, name string) map[string]float64 {
	out := make(map[string]float64)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			out[strings.Join(labels, ",")] = m.GetCounter().GetValue()
		}
	}
	return out
}
