package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/faultline/faultline/internal/model"
	"github.com/faultline/faultline/internal/service"
)

// FeedbackHandler handles feedback on delivered reports
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// FeedbackRequest is the submission body for POST /feedback
type FeedbackRequest struct {
	JobID    string `json:"job_id"`
	IsUseful bool   `json:"is_useful"`
	Comment  string `json:"comment,omitempty"`
}

// Post handles POST /feedback
func (h *FeedbackHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	feedback := &model.Feedback{
		JobID:    req.JobID,
		IsUseful: req.IsUseful,
		Comment:  req.Comment,
	}
	if err := feedback.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Submit(r.Context(), feedback); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"status":  "success",
		"message": "Feedback received",
	})
}

// List handles GET /feedback/{job_id}
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	feedback, err := h.service.ListForJob(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if feedback == nil {
		feedback = []model.Feedback{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"feedback": feedback,
		"total":    len(feedback),
	})
}
