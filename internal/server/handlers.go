package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/ingestion"
	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/pipeline"
	"github.com/jonathan/cv-tailor/internal/schemas"
	"github.com/jonathan/cv-tailor/internal/types"
)

// ProfileTailorRequest is the body of POST /profiles/{id}/tailor: a tailoring request
// whose profile comes from the store.
type ProfileTailorRequest struct {
	JobDescription     string      `json:"job_description"`
	TargetCompany      string      `json:"target_company,omitempty"`
	TargetRole         string      `json:"target_role,omitempty"`
	Seniority          string      `json:"seniority,omitempty"`
	Style              types.Style `json:"style,omitempty"`
	MaxExperiences     int         `json:"max_experiences,omitempty"`
	AdditionalContext  string      `json:"additional_context,omitempty"`
	IncludeCoverLetter bool        `json:"include_cover_letter,omitempty"`
}

func (p ProfileTailorRequest) withProfile(profile types.Profile) *types.TailorRequest {
	return &types.TailorRequest{
		Profile:            profile,
		JobDescription:     ingestion.CleanJobText(p.JobDescription),
		TargetCompany:      p.TargetCompany,
		TargetRole:         p.TargetRole,
		Seniority:          p.Seniority,
		Style:              p.Style,
		MaxExperiences:     p.MaxExperiences,
		AdditionalContext:  p.AdditionalContext,
		IncludeCoverLetter: p.IncludeCoverLetter,
	}
}

// handleTailor runs the pipeline on a full request and returns the response.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeTailorRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.runAndRespond(w, r, req)
}

// handleTailorStream runs the pipeline and streams each completed stage as an SSE event,
// followed by a result or error event.
func (s *Server) handleTailorStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeTailorRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	deps := s.deps
	deps.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteProgress(event); err != nil {
			s.log.Warn("failed to write progress event", zap.Error(err))
		}
	}

	resp, err := pipeline.Run(r.Context(), deps, req)
	if err != nil {
		sse.WriteError(err)
		return
	}
	if err := sse.WriteEvent(EventResult, resp); err != nil {
		s.log.Warn("failed to write result event", zap.Error(err))
	}
}

// handleProfileTailor tailors a stored profile.
func (s *Server) handleProfileTailor(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "profile store is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var pr ProfileTailorRequest
	if err := json.Unmarshal(body, &pr); err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	profile, err := s.profiles.GetProfile(r.Context(), id)
	if err != nil {
		s.log.Warn("profile lookup failed", zap.String("profile_id", id.String()), zap.Error(err))
		s.writeError(w, err)
		return
	}
	s.runAndRespond(w, r, pr.withProfile(*profile))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"llm_configured": llm.IsUsable(s.deps.LLM),
		"profile_store":  s.profiles != nil,
	})
}

func (s *Server) runAndRespond(w http.ResponseWriter, r *http.Request, req *types.TailorRequest) {
	resp, err := pipeline.Run(r.Context(), s.deps, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// decodeTailorRequest reads the body, checks it against the request schema and decodes it.
func (s *Server) decodeTailorRequest(w http.ResponseWriter, r *http.Request) (*types.TailorRequest, error) {
	body, err := s.readBody(w, r)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &ErrValidation{Field: "body", Message: "request body is not valid JSON"}
	}
	if err := schemas.Validate(schemas.TailorRequest, string(body)); err != nil {
		return nil, err
	}
	var req types.TailorRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	req.JobDescription = ingestion.CleanJobText(req.JobDescription)
	return &req, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrValidation{Field: "body", Message: "request body too large"}
		}
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if len(body) == 0 {
		return nil, &ErrValidation{Field: "body", Message: "request body is required"}
	}
	return body, nil
}
