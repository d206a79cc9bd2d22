package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/jonathan/cv-tailor/internal/coverletter"
	"github.com/jonathan/cv-tailor/internal/db"
	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/pipeline"
	"github.com/jonathan/cv-tailor/internal/pipeline/steps"
	"github.com/jonathan/cv-tailor/internal/rewriting"
	"github.com/jonathan/cv-tailor/internal/schemas"
)

func TestHTTPStatus(t *testing.T) {
	stage := func(name string, cause error) error {
		return &pipeline.StageError{Stage: name, Cause: cause}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not configured", stage(steps.MatchSkills, &llm.ConfigurationError{Component: "skill matcher"}), http.StatusServiceUnavailable},
		{"rate limited by provider", stage(steps.AdaptContent, &llm.APICallError{Operation: "rewrite", Cause: &googleapi.Error{Code: 429}}), http.StatusServiceUnavailable},
		{"provider deadline", &llm.APICallError{Cause: context.DeadlineExceeded}, http.StatusServiceUnavailable},
		{"provider rejected", stage(steps.AdaptContent, &llm.APICallError{Cause: &googleapi.Error{Code: 400}}), http.StatusBadGateway},
		{"profile missing", fmt.Errorf("%w: abc", db.ErrProfileNotFound), http.StatusNotFound},
		{"request validation", stage(steps.ValidateRequest, errors.New("job_description required")), http.StatusBadRequest},
		{"schema", &schemas.ValidationError{Schema: "tailor_request"}, http.StatusBadRequest},
		{"bad body", &ErrValidation{Field: "body", Message: "bad"}, http.StatusBadRequest},
		{"empty rewrite", stage(steps.AdaptContent, &rewriting.EmptyRewriteError{Field: "experiences[0].description"}), http.StatusUnprocessableEntity},
		{"empty letter", stage(steps.WriteCoverLetter, coverletter.ErrEmptyLetter), http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWriteError_RetryAfterOnlyForTransientFailures(t *testing.T) {
	s := New(Options{})

	w := httptest.NewRecorder()
	s.writeError(w, &pipeline.StageError{
		Stage: steps.AdaptContent,
		Cause: &llm.APICallError{Cause: &googleapi.Error{Code: 503}},
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"stage":"adapt_content"`)

	w = httptest.NewRecorder()
	s.writeError(w, &llm.ConfigurationError{Component: "content adapter"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
}
