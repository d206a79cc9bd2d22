package parsing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/llm/llmtest"
)

func llmAnalysisResponse() string {
	var resps []string
	for i := 0; i < 12; i++ {
		resps = append(resps, fmt.Sprintf("%q", fmt.Sprintf("Own service %d", i)))
	}
	return "Here you go:\n```json\n{" +
		`"required_skills": ["Python", "Django", "python"],` +
		`"preferred_skills": ["Docker", "Django"],` +
		`"responsibilities": [` + strings.Join(resps, ",") + `],` +
		`"domain_keywords": ["Fintech", "docker"],` +
		`"seniority_signals": ["Senior", "lead", "mentor", "owner", "staff", "principal", "architect"]` +
		"}\n```"
}

func TestAnalyze_LLMPath(t *testing.T) {
	fake := &llmtest.Fake{GenerateFunc: func(prompt, system string) (string, error) {
		return llmAnalysisResponse(), nil
	}}

	a := Analyze(context.Background(), fake, "job text", "", zap.NewNop())

	assert.Equal(t, SourceLLM, a.Source)
	assert.Equal(t, []string{"python", "django"}, a.RequiredSkills)
	assert.Equal(t, []string{"docker"}, a.PreferredSkills)
	assert.Equal(t, []string{"fintech"}, a.DomainKeywords)
	assert.Len(t, a.Responsibilities, maxResponsibilities)
	assert.Len(t, a.SenioritySignals, maxSenioritySignals)
	assert.Equal(t, "senior", a.SenioritySignals[0])
}

func TestAnalyze_DirectiveIsPrepended(t *testing.T) {
	fake := &llmtest.Fake{GenerateFunc: func(prompt, system string) (string, error) {
		return llmAnalysisResponse(), nil
	}}

	Analyze(context.Background(), fake, "Python role", "Make it enterprise-focused", nil)

	calls := fake.GenerateCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "Make it enterprise-focused")
	assert.Less(t, strings.Index(calls[0], "Make it enterprise-focused"), strings.Index(calls[0], "Python role"))
	assert.NotContains(t, calls[0], "{{.")
}

func TestAnalyze_FallsBackToHeuristic(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
	}{
		{"unconfigured", llm.Unconfigured()},
		{"nil client", nil},
		{"transport error", &llmtest.Fake{GenerateFunc: func(string, string) (string, error) {
			return "", &llm.APICallError{Operation: "generate_text", Cause: context.DeadlineExceeded}
		}}},
		{"no json", &llmtest.Fake{GenerateFunc: func(string, string) (string, error) {
			return "I cannot help with that.", nil
		}}},
		{"schema mismatch", &llmtest.Fake{GenerateFunc: func(string, string) (string, error) {
			return `{"required_skills": "python"}`, nil
		}}},
		{"empty analysis", &llmtest.Fake{GenerateFunc: func(string, string) (string, error) {
			return `{"required_skills": [], "preferred_skills": [], "responsibilities": [], "domain_keywords": [], "seniority_signals": []}`, nil
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(context.Background(), tt.client, backendJD, "", zap.NewNop())
			require.NotNil(t, a)
			assert.Equal(t, AnalyzeHeuristic(backendJD), a)
		})
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("bad")
	err := &ParseError{Message: "failed", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "parse error: failed: bad", err.Error())
	assert.Equal(t, "parse error: failed", (&ParseError{Message: "failed"}).Error())
}
