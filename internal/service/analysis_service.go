package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/faultline/faultline/internal/fingerprint"
	"github.com/faultline/faultline/internal/model"
	"github.com/faultline/faultline/internal/store"
	"github.com/faultline/faultline/internal/worker"
)

// ErrBusy means the service could not take on more asynchronous work
var ErrBusy = errors.New("analysis queue is full")

// AnalysisService accepts submissions and coordinates fingerprinting,
// cache short-circuiting, single flight, and job creation. The pipeline
// itself runs on the worker pool; the caller gets a job back immediately.
type AnalysisService struct {
	jobs       JobStore
	cache      ResultCache
	claims     Claims
	pipeline   *Pipeline
	dispatcher Dispatcher
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(jobs JobStore, cache ResultCache, claims Claims, pipeline *Pipeline, dispatcher Dispatcher) *AnalysisService {
	return &AnalysisService{
		jobs:       jobs,
		cache:      cache,
		claims:     claims,
		pipeline:   pipeline,
		dispatcher: dispatcher,
	}
}

// Submit registers an analysis request. On a cache hit the returned job
// is already completed and no pipeline run starts. On a concurrent
// identical submission the caller joins the in-flight job. Otherwise a
// queued job is created and exactly one pipeline run is dispatched.
func (s *AnalysisService) Submit(ctx context.Context, req model.AnalysisRequest) (*model.Job, error) {
	fp := fingerprint.Sum([]byte(req.Content))

	// Cache hit bypasses the whole pipeline
	entry, found, err := s.cache.Lookup(ctx, fp)
	if err != nil {
		return nil, err
	}
	if found {
		job := &model.Job{
			JobID:              uuid.New().String(),
			ContentFingerprint: fp,
			Status:             model.StatusCompleted,
			ProgressHint:       "Analysis complete",
			Metadata:           req.Metadata,
			Result:             &entry.Result,
			Markdown:           entry.Markdown,
		}
		if err := s.jobs.Create(ctx, job); err != nil {
			return nil, err
		}
		slog.Info("Cache hit, returning completed job",
			"job_id", job.JobID,
			"fingerprint", fp,
		)
		return job, nil
	}

	jobID := uuid.New().String()

	// Single flight: an identical submission already in flight is joined
	// rather than recomputed
	owner, acquired, err := s.claims.Acquire(ctx, fp, jobID)
	if err != nil {
		return nil, err
	}
	if !acquired && owner == "" {
		// claim expired between SetNX and the owner read; retry once
		// rather than running the pipeline unclaimed
		if owner, acquired, err = s.claims.Acquire(ctx, fp, jobID); err != nil {
			return nil, err
		}
		if !acquired && owner == "" {
			return nil, fmt.Errorf("fingerprint %s is contended, retry the submission", fp)
		}
	}
	if !acquired && owner != "" && owner != jobID {
		existing, err := s.jobs.Get(ctx, owner)
		if err == nil {
			slog.Info("Joining in-flight analysis",
				"job_id", owner,
				"fingerprint", fp,
			)
			return existing, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		// claim is an orphan from a dead owner; take it over
		if err := s.claims.Release(ctx, fp, owner); err != nil {
			return nil, err
		}
		if _, acquired, err = s.claims.Acquire(ctx, fp, jobID); err != nil {
			return nil, err
		}
		if !acquired {
			return nil, fmt.Errorf("fingerprint %s is contended, retry the submission", fp)
		}
	}

	job := &model.Job{
		JobID:              jobID,
		ContentFingerprint: fp,
		Status:             model.StatusQueued,
		ProgressHint:       "Job queued",
		Metadata:           req.Metadata,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		releaseErr := s.claims.Release(ctx, fp, jobID)
		if releaseErr != nil {
			slog.Warn("Failed to release claim after create failure", "job_id", jobID, "error", releaseErr.Error())
		}
		return nil, err
	}

	task := worker.Task{
		JobID: jobID,
		Run: func(taskCtx context.Context) {
			s.pipeline.Run(taskCtx, job, req.Content, req.ContentType)
		},
	}
	if err := s.dispatcher.Submit(task); err != nil {
		slog.Error("Failed to dispatch analysis task", "job_id", jobID, "error", err.Error())
		if failErr := s.jobs.Fail(ctx, jobID, "analysis queue is full, retry later"); failErr != nil {
			slog.Error("Failed to mark undispatched job failed", "job_id", jobID, "error", failErr.Error())
		}
		if releaseErr := s.claims.Release(ctx, fp, jobID); releaseErr != nil {
			slog.Warn("Failed to release claim after dispatch failure", "job_id", jobID, "error", releaseErr.Error())
		}
		return nil, ErrBusy
	}

	slog.Info("Job queued for analysis",
		"job_id", jobID,
		"fingerprint", fp,
		"content_type", string(req.ContentType),
	)
	return job, nil
}

// GetJob retrieves one job by id
func (s *AnalysisService) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	return s.jobs.Get(ctx, jobID)
}

// ListJobs returns all live jobs, newest first
func (s *AnalysisService) ListJobs(ctx context.Context) ([]model.JobSummary, error) {
	return s.jobs.List(ctx)
}
