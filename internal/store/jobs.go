package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faultline/faultline/internal/model"
)

// JobStore keeps job records under job:{job_id} with a sliding TTL:
// every write resets the clock, so a job making progress is never
// evicted mid-flight.
type JobStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewJobStore creates a job store with the given record lifetime
func NewJobStore(r *Redis, ttl time.Duration) *JobStore {
	return &JobStore{rdb: r.Client, ttl: ttl}
}

func jobKey(jobID string) string {
	return jobKeyPrefix + jobID
}

// Create stores a new job record. Fails with ErrAlreadyExists if a live
// record already holds the id.
func (s *JobStore) Create(ctx context.Context, job *model.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, jobKey(job.JobID), data, s.ttl).Result()
	if err != nil {
		return unavailable("create job", err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	return nil
}

// Get retrieves a job record. Fails with ErrNotFound once the TTL has
// elapsed, even if the job previously existed.
func (s *JobStore) Get(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.rdb.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, unavailable("get job", err)
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Transition moves a job to a new status and overwrites the progress
// hint. Writes to a terminal job are rejected.
func (s *JobStore) Transition(ctx context.Context, jobID string, status model.JobStatus, progressHint string) error {
	return s.update(ctx, jobID, func(job *model.Job) error {
		job.Status = status
		if progressHint != "" {
			job.ProgressHint = progressHint
		}
		return nil
	})
}

// Complete marks a job completed and stores its payload
func (s *JobStore) Complete(ctx context.Context, jobID string, result *model.AnalysisReport, markdown string) error {
	return s.update(ctx, jobID, func(job *model.Job) error {
		job.Status = model.StatusCompleted
		job.ProgressHint = "Analysis complete"
		job.Result = result
		job.Markdown = markdown
		return nil
	})
}

// Fail marks a job failed with a short diagnostic. The progress hint is
// overwritten so a stale mid-pipeline hint never outlives the failure.
func (s *JobStore) Fail(ctx context.Context, jobID string, errMsg string) error {
	return s.update(ctx, jobID, func(job *model.Job) error {
		job.Status = model.StatusFailed
		job.ProgressHint = "Analysis failed"
		job.Error = errMsg
		return nil
	})
}

// update applies fn to the live record and writes it back with a fresh
// TTL. Mutation is last-writer-wins; the orchestrator is the only writer
// within one job's lifeline, so stage transitions stay strictly ordered.
func (s *JobStore) update(ctx context.Context, jobID string, fn func(*model.Job) error) error {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return ErrTerminalState
	}

	if err := fn(job); err != nil {
		return err
	}
	job.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, jobKey(jobID), data, s.ttl).Err(); err != nil {
		return unavailable("update job", err)
	}
	return nil
}

// List returns all live jobs, newest first by stored creation time
func (s *JobStore) List(ctx context.Context) ([]model.JobSummary, error) {
	var summaries []model.JobSummary

	iter := s.rdb.Scan(ctx, 0, jobKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.rdb.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// expired between scan and get
				continue
			}
			return nil, unavailable("list jobs", err)
		}

		var job model.Job
		if err := json.Unmarshal(data, &job); err != nil {
			slog.Warn("Skipping undecodable job record", "key", iter.Val(), "error", err.Error())
			continue
		}
		summaries = append(summaries, job.Summary())
	}
	if err := iter.Err(); err != nil {
		return nil, unavailable("list jobs", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}
