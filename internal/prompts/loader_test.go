package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("analysis.json", "extract-requirements")
	require.NoError(t, err)
	assert.Contains(t, prompt, "required_skills")
	assert.Contains(t, prompt, "{{.JobText}}")

	_, err = Get("nonexistent.json", "some-key")
	assert.ErrorContains(t, err, "not embedded")

	_, err = Get("analysis.json", "nonexistent-key")
	assert.ErrorContains(t, err, "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestEveryPromptFileLoads(t *testing.T) {
	files := map[string][]string{
		"analysis.json":    {"directive-preamble", "extract-requirements", "system"},
		"matching.json":    {"directive-line", "evaluate-skill", "system"},
		"adaptation.json":  {"directive-line", "rewrite-contract"},
		"context.json":     {"classify", "system"},
		"coverletter.json": {"generate", "system"},
	}
	for name, want := range files {
		keys, err := Keys(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, keys, name)
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{"all present", "Hello {{.Name}}, role {{.Role}}", map[string]string{"Name": "Ada", "Role": "CTO"}, "Hello Ada, role CTO"},
		{"missing blanks", "Hello {{.Name}}{{.Suffix}}", map[string]string{"Name": "Ada"}, "Hello Ada"},
		{"values are not re-expanded", "{{.A}}", map[string]string{"A": "{{.B}}", "B": "x"}, "{{.B}}"},
		{"no placeholders", "plain", nil, "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fill(tt.template, tt.data))
		})
	}
}

func TestRender_BlanksMissingPlaceholders(t *testing.T) {
	out := Render("analysis.json", "extract-requirements", map[string]string{"JobText": "Build Go services"})
	assert.Contains(t, out, "Build Go services")
	assert.NotContains(t, out, "{{.")
}
