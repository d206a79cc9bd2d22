package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-tailor/internal/coverletter"
	"github.com/jonathan/cv-tailor/internal/db"
	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/pipeline"
	"github.com/jonathan/cv-tailor/internal/pipeline/steps"
	"github.com/jonathan/cv-tailor/internal/rewriting"
	"github.com/jonathan/cv-tailor/internal/schemas"
)

// RetryAfterSeconds is sent with 503 responses caused by transient provider failures.
const RetryAfterSeconds = 30

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		apiErr       *llm.APICallError
		validation   *ErrValidation
		schemaErr    *schemas.ValidationError
		fieldErrs    validator.ValidationErrors
		stageErr     *pipeline.StageError
		emptyErr     *rewriting.EmptyRewriteError
		lengthErr    *rewriting.LengthLimitError
		fabricateErr *rewriting.FabricationError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case llm.IsRetryable(err):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, db.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &schemaErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &stageErr) && stageErr.Stage == steps.ValidateRequest:
		return http.StatusBadRequest
	case errors.As(err, &emptyErr), errors.As(err, &lengthErr), errors.As(err, &fabricateErr),
		errors.Is(err, coverletter.ErrEmptyLetter):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// writeError maps err to a status and writes it, adding Retry-After for transient failures.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusServiceUnavailable && llm.IsRetryable(err) {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", RetryAfterSeconds))
	}

	body := errorBody{Error: err.Error()}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		body.Stage = stageErr.Stage
	}
	s.jsonResponse(w, status, body)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, errorBody{Error: message})
}
