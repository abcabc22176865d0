package model

import "time"

// JobStatus represents the lifecycle state of an analysis job
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Terminal reports whether no further transitions are permitted
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one tracked analysis request. The record lives in the job store
// under a sliding TTL; every write resets the clock.
type Job struct {
	JobID              string            `json:"job_id"`
	ContentFingerprint string            `json:"content_fingerprint"`
	Status             JobStatus         `json:"status"`
	ProgressHint       string            `json:"progress_hints,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	Result             *AnalysisReport   `json:"result,omitempty"`
	Markdown           string            `json:"markdown,omitempty"`
	Error              string            `json:"error,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// JobSummary is the list-view projection of a job
type JobSummary struct {
	JobID        string    `json:"job_id"`
	Status       JobStatus `json:"status"`
	ProgressHint string    `json:"progress_hints,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary returns the list-view projection of the job
func (j *Job) Summary() JobSummary {
	return JobSummary{
		JobID:        j.JobID,
		Status:       j.Status,
		ProgressHint: j.ProgressHint,
		Error:        j.Error,
		CreatedAt:    j.CreatedAt,
	}
}
