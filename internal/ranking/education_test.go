package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-tailor/internal/types"
)

func TestSelectEducation(t *testing.T) {
	education := []types.Education{
		{Institution: "Art School", Degree: "BA", Field: "Painting", StartDate: "2020-09"},
		{Institution: "Tech University", Degree: "MSc", Field: "Computer Science", Description: "Thesis on Python data pipelines"},
		{Institution: "Community College", Degree: "Certificate", Field: "Django web development"},
	}
	spec := ScoreSpec{Required: []string{"python", "django"}}

	selected := SelectEducation(education, spec, 0)
	assert.Len(t, selected, DefaultMaxEducation)
	assert.Equal(t, "Tech University", selected[0].Institution)
	assert.Equal(t, "Community College", selected[1].Institution)
	assert.Equal(t, education[1], selected[0], "entries are copied verbatim")
}

func TestSelectEducation_FixedAnchorIgnoresDates(t *testing.T) {
	education := []types.Education{
		{Institution: "Old", Degree: "BSc", StartDate: "1999-09"},
		{Institution: "New", Degree: "BSc", StartDate: "2023-09"},
	}
	scores := ScoreEducation(education, ScoreSpec{})
	assert.Equal(t, scores[0].Score.Value, scores[1].Score.Value)

	selected := SelectEducation(education, ScoreSpec{}, 1)
	assert.Equal(t, []types.Education{education[0]}, selected, "ties keep profile order")
}

func TestSelectEducation_Empty(t *testing.T) {
	assert.Nil(t, SelectEducation(nil, ScoreSpec{}, 2))
}
