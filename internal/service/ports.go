package service

import (
	"context"

	"github.com/faultline/faultline/internal/model"
	"github.com/faultline/faultline/internal/synthesis"
	"github.com/faultline/faultline/internal/worker"
)

// JobStore is the job-record port (implementation: store.JobStore)
type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, jobID string) (*model.Job, error)
	Transition(ctx context.Context, jobID string, status model.JobStatus, progressHint string) error
	Complete(ctx context.Context, jobID string, result *model.AnalysisReport, markdown string) error
	Fail(ctx context.Context, jobID string, errMsg string) error
	List(ctx context.Context) ([]model.JobSummary, error)
}

// ResultCache is the fingerprint-keyed memo port (implementation: store.ResultCache)
type ResultCache interface {
	Lookup(ctx context.Context, fingerprint string) (*model.CacheEntry, bool, error)
	Store(ctx context.Context, fingerprint string, result *model.AnalysisReport, markdown string) error
}

// Claims is the single-flight port (implementation: store.ClaimStore)
type Claims interface {
	Acquire(ctx context.Context, fingerprint, jobID string) (owner string, acquired bool, err error)
	Refresh(ctx context.Context, fingerprint string) error
	Release(ctx context.Context, fingerprint, jobID string) error
}

// Normalizer turns raw content into a structured artifact. Always total.
type Normalizer interface {
	Normalize(content string, contentType model.ContentType) *model.NormalizedArtifact
}

// HeuristicEngine produces rule-based findings. Always total.
type HeuristicEngine interface {
	Run(artifact *model.NormalizedArtifact) []model.HeuristicFinding
}

// Synthesizer is the synthesis-client port (implementation: synthesis.Client)
type Synthesizer interface {
	Synthesize(ctx context.Context, req synthesis.Request) (*synthesis.Output, error)
}

// Dispatcher hands tasks to the worker pool (implementation: worker.Pool)
type Dispatcher interface {
	Submit(task worker.Task) error
}
