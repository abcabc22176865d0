package service

import (
	"context"
	"time"

	"github.com/faultline/faultline/internal/model"
)

// FeedbackRepository is the persistence port for feedback
// (implementation: database.FeedbackRepository)
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	ListByJob(ctx context.Context, jobID string) ([]model.Feedback, error)
}

// FeedbackService records caller judgements on delivered reports
type FeedbackService struct {
	repo FeedbackRepository
}

// NewFeedbackService creates a feedback service
func NewFeedbackService(repo FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

// Submit validates and persists one piece of feedback
func (s *FeedbackService) Submit(ctx context.Context, feedback *model.Feedback) error {
	if err := feedback.Validate(); err != nil {
		return err
	}
	feedback.CreatedAt = time.Now().UTC()
	return s.repo.Create(ctx, feedback)
}

// ListForJob returns all feedback recorded against a job
func (s *FeedbackService) ListForJob(ctx context.Context, jobID string) ([]model.Feedback, error) {
	return s.repo.ListByJob(ctx, jobID)
}
