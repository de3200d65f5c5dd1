// Package server exposes the engine's operations over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"clipers-engine/internal/cliper"
	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/jobs"
	"clipers-engine/internal/models"
)

// JobService creates job postings.
type JobService interface {
	Create(ctx context.Context, req jobs.CreateRequest) (*models.Job, error)
}

// Searcher serves full-text job queries.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// CliperService runs the video resume pipeline.
type CliperService interface {
	Process(ctx context.Context, req cliper.ProcessRequest) (*models.Cliper, error)
	Retry(ctx context.Context, cliperID string) error
}

// Server routes engine operations. It is intentionally thin; all behavior
// lives in the services it delegates to.
type Server struct {
	clipers CliperService
	jobs    JobService
	search  Searcher
	logger  *zap.Logger
}

func New(clipers CliperService, jobService JobService, searcher Searcher, logger *zap.Logger) *Server {
	return &Server{clipers: clipers, jobs: jobService, search: searcher, logger: logger}
}

// Routes registers the API handlers on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/clipers", s.handleCreateCliper)
	mux.HandleFunc("POST /api/v1/clipers/{id}/retry", s.handleRetryCliper)
	mux.HandleFunc("POST /api/v1/jobs", s.handleCreateJob)
	mux.HandleFunc("GET /api/v1/jobs/search", s.handleSearchJobs)
}

type createCliperRequest struct {
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaRef    string `json:"mediaRef"`
	Duration    int    `json:"duration"`
	Media       []byte `json:"media,omitempty"`
}

func (s *Server) handleCreateCliper(w http.ResponseWriter, r *http.Request) {
	var req createCliperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := s.clipers.Process(r.Context(), cliper.ProcessRequest{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		MediaRef:    req.MediaRef,
		Duration:    req.Duration,
		Media:       req.Media,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleRetryCliper(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.clipers.Retry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "retry scheduled"})
}

type createJobRequest struct {
	CompanyID    string   `json:"companyId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Skills       []string `json:"skills"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	SalaryMin    float64  `json:"salaryMin"`
	SalaryMax    float64  `json:"salaryMax"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	job, err := s.jobs.Create(r.Context(), jobs.CreateRequest{
		CompanyID:    req.CompanyID,
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Skills:       req.Skills,
		Location:     req.Location,
		Type:         models.JobType(strings.ToUpper(req.Type)),
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, apperrors.NewValidationError("query parameter q is required", ""))
		return
	}

	ids, err := s.search.Search(r.Context(), query, 20)
	if err != nil {
		s.logger.Error("Job search failed", zap.String("query", query), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "search unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobIds": ids})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		status := http.StatusInternalServerError
		switch stdErr.Code {
		case apperrors.ErrCodeValidation:
			status = http.StatusBadRequest
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeCliperState:
			status = http.StatusConflict
		}
		writeJSON(w, status, stdErr)
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
