package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talent-graph/internal/schemas"
	"github.com/jonathan/talent-graph/internal/types"
)

// maxBodyBytes bounds request bodies; profiles are structured data, not uploads.
const maxBodyBytes = 1 << 20

// pairRequest identifies one (candidate, job) pair.
type pairRequest struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	JobID       uuid.UUID `json:"job_id"`
}

// previewRequest adds the cache bypass flag.
type previewRequest struct {
	pairRequest
	ForceRefresh bool `json:"force_refresh"`
}

// feedbackRequest carries one recruiter decision.
type feedbackRequest struct {
	pairRequest
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

// handleUpsertCandidate stores a candidate profile after schema validation.
func (s *Server) handleUpsertCandidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := schemas.ValidateCandidateProfile(body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate profile JSON")
		return
	}
	if err := profile.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.Store().UpsertCandidate(r.Context(), &profile); err != nil {
		s.logger.Error("upserting candidate", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to store candidate")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"id": profile.ID.String()})
}

// handleGetCandidate returns a stored candidate profile.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	profile, err := s.engine.Store().GetCandidate(r.Context(), id)
	if err != nil {
		s.logger.Error("fetching candidate", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to fetch candidate")
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Kind: "candidate", ID: id}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleExportGraph rebuilds and returns a candidate's capability graph.
func (s *Server) handleExportGraph(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	data, err := s.engine.ExportGraph(r.Context(), id)
	if err != nil {
		s.logger.Error("exporting graph", zap.Error(err))
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, data)
}

// handleUpsertJob stores a job's requirements after schema validation.
func (s *Server) handleUpsertJob(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := schemas.ValidateJobRequirements(body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var job types.JobRequirements
	if err := json.Unmarshal(body, &job); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid job requirements JSON")
		return
	}
	if err := job.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.Store().UpsertJob(r.Context(), &job); err != nil {
		s.logger.Error("upserting job", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to store job")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"id": job.ID.String()})
}

// handleGetJob returns a stored job.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	job, err := s.engine.Store().GetJob(r.Context(), id)
	if err != nil {
		s.logger.Error("fetching job", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to fetch job")
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Kind: "job", ID: id}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleScore runs a fresh scoring pass for a pair.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	eval, err := s.engine.Score(r.Context(), req.CandidateID, req.JobID)
	if err != nil {
		s.logger.Error("scoring pair", zap.Error(err))
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"match_result":     eval.Result,
		"selected_content": eval.Selected,
	})
}

// handlePreview returns the cached preview for a pair, computing it if
// missing or stale.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	record, cached, err := s.engine.Preview(r.Context(), req.CandidateID, req.JobID, req.ForceRefresh)
	if err != nil {
		s.logger.Error("building preview", zap.Error(err))
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"preview": record,
		"cached":  cached,
	})
}

// handleFeedback records a recruiter decision and folds it into the
// candidate's durable edge weights.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	decision, err := types.ParseDecision(req.Decision)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	event := &types.FeedbackEvent{
		CandidateID: req.CandidateID,
		JobID:       req.JobID,
		Decision:    decision,
		Reason:      req.Reason,
		CreatedAt:   time.Now().UTC(),
	}

	eval, err := s.engine.ApplyFeedback(r.Context(), event)
	if err != nil {
		s.logger.Error("applying feedback", zap.Error(err))
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"event":        event,
		"match_result": eval.Result,
	})
}

// handleListFeedback returns the feedback log for a pair, oldest first.
func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	candidateID, err := uuid.Parse(r.URL.Query().Get("candidate_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate_id")
		return
	}
	jobID, err := uuid.Parse(r.URL.Query().Get("job_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid job_id")
		return
	}

	events, err := s.engine.Store().ListFeedback(r.Context(), candidateID, jobID)
	if err != nil {
		s.logger.Error("listing feedback", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list feedback")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"events": events})
}

// decodeJSON decodes a bounded JSON body, writing the error response itself.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	return true
}

// pathUUID parses a UUID path parameter, writing the error response itself.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
