package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/faultline/faultline/internal/model"
	"github.com/faultline/faultline/internal/service"
)

// AnalysisHandler handles artifact submission and job lookups
type AnalysisHandler struct {
	service *service.AnalysisService
	jobTTL  time.Duration
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(svc *service.AnalysisService, jobTTL time.Duration) *AnalysisHandler {
	return &AnalysisHandler{
		service: svc,
		jobTTL:  jobTTL,
	}
}

// JobResponse is the status projection of a job. A failed job carries
// its diagnostic here; nothing else populates the error field.
type JobResponse struct {
	JobID        string          `json:"job_id"`
	Status       model.JobStatus `json:"status"`
	ProgressHint string          `json:"progress_hints,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// ResultResponse carries a completed job's report and narrative
type ResultResponse struct {
	JobID    string                `json:"job_id"`
	Status   model.JobStatus       `json:"status"`
	Result   *model.AnalysisReport `json:"result"`
	Markdown string                `json:"markdown"`
}

// ListResponse is the body of GET /jobs
type ListResponse struct {
	Jobs  []model.JobSummary `json:"jobs"`
	Total int                `json:"total"`
	Note  string             `json:"note"`
}

// Analyze handles POST /artifacts/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.service.Submit(r.Context(), req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	// A cache hit comes back already completed; fresh work is accepted
	// for asynchronous processing
	status := http.StatusAccepted
	if job.Status == model.StatusCompleted {
		status = http.StatusOK
	}

	writeJSON(w, status, JobResponse{
		JobID:        job.JobID,
		Status:       job.Status,
		ProgressHint: job.ProgressHint,
		Error:        job.Error,
	})
}

// GetJob handles GET /jobs/{job_id}
func (h *AnalysisHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JobResponse{
		JobID:        job.JobID,
		Status:       job.Status,
		ProgressHint: job.ProgressHint,
		Error:        job.Error,
	})
}

// GetResult handles GET /jobs/{job_id}/result
func (h *AnalysisHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	switch job.Status {
	case model.StatusCompleted:
		writeJSON(w, http.StatusOK, ResultResponse{
			JobID:    job.JobID,
			Status:   job.Status,
			Result:   job.Result,
			Markdown: job.Markdown,
		})
	case model.StatusFailed:
		// a failed job will never have a result: distinct from "not yet"
		writeError(w, http.StatusConflict, fmt.Sprintf("Job failed and has no result: %s", job.Error))
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Job is not completed. Current status: %s", job.Status))
	}
}

// List handles GET /jobs
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListJobs(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if jobs == nil {
		jobs = []model.JobSummary{}
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Jobs:  jobs,
		Total: len(jobs),
		Note:  fmt.Sprintf("jobs expire %s after their last update", h.jobTTL),
	})
}
