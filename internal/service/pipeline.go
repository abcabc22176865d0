package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/faultline/faultline/internal/model"
	"github.com/faultline/faultline/internal/store"
	"github.com/faultline/faultline/internal/synthesis"
)

// Pipeline drives one job from queued to a terminal state exactly once:
// size guard, normalize, heuristics, synthesize, cache write, complete.
// It is the only writer of job state after creation.
type Pipeline struct {
	jobs       JobStore
	cache      ResultCache
	claims     Claims
	normalizer Normalizer
	heuristics HeuristicEngine
	synth      Synthesizer

	maxContentBytes int
}

// NewPipeline creates a pipeline orchestrator
func NewPipeline(
	jobs JobStore,
	cache ResultCache,
	claims Claims,
	normalizer Normalizer,
	heuristics HeuristicEngine,
	synth Synthesizer,
	maxContentBytes int,
) *Pipeline {
	return &Pipeline{
		jobs:            jobs,
		cache:           cache,
		claims:          claims,
		normalizer:      normalizer,
		heuristics:      heuristics,
		synth:           synth,
		maxContentBytes: maxContentBytes,
	}
}

// Run executes the full analysis pipeline for one job. All failures end
// in a failed job record; nothing escapes to crash the process.
func (p *Pipeline) Run(ctx context.Context, job *model.Job, content string, contentType model.ContentType) {
	jobID := job.JobID
	fp := job.ContentFingerprint
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Pipeline panic recovered",
				"job_id", jobID,
				"panic", fmt.Sprint(r),
			)
			p.failJob(ctx, jobID, "internal error during analysis")
		}
	}()
	defer func() {
		if err := p.claims.Release(ctx, fp, jobID); err != nil {
			slog.Warn("Failed to release claim", "job_id", jobID, "error", err.Error())
		}
	}()

	slog.Info("Starting analysis pipeline",
		"job_id", jobID,
		"fingerprint", fp,
		"content_type", string(contentType),
		"content_bytes", len(content),
	)

	// Size guard runs before any parsing to bound worst-case cost
	if len(content) > p.maxContentBytes {
		p.failJob(ctx, jobID, fmt.Sprintf("content size %d bytes exceeds the %d byte limit", len(content), p.maxContentBytes))
		return
	}

	if !p.transition(ctx, jobID, "Normalizing content") {
		return
	}
	artifact := p.normalizer.Normalize(content, contentType)
	p.refreshClaim(ctx, jobID, fp)

	if !p.transition(ctx, jobID, "Running heuristics") {
		return
	}
	findings := p.heuristics.Run(artifact)
	p.refreshClaim(ctx, jobID, fp)

	if !p.transition(ctx, jobID, "Synthesizing report") {
		return
	}
	out, err := p.synth.Synthesize(ctx, synthesis.Request{
		Artifact: artifact,
		Findings: findings,
		Metadata: job.Metadata,
	})
	if err != nil {
		slog.Error("Synthesis failed",
			"job_id", jobID,
			"error", err.Error(),
		)
		p.failJob(ctx, jobID, synthesisDiagnostic(err))
		return
	}

	// Cache first, then complete. A crash in between leaves a populated
	// cache and an expiring job: benign, observable, last-writer-wins.
	if err := p.cache.Store(ctx, fp, &out.Report, out.Markdown); err != nil {
		slog.Error("Failed to write result cache", "job_id", jobID, "error", err.Error())
	}

	if err := p.jobs.Complete(ctx, jobID, &out.Report, out.Markdown); err != nil {
		slog.Error("Failed to complete job", "job_id", jobID, "error", err.Error())
		return
	}

	slog.Info("Analysis pipeline completed",
		"job_id", jobID,
		"score", out.Report.Score,
		"findings", len(out.Report.Findings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// transition moves the job to running with a fresh progress hint. A
// false return means the job vanished or is frozen and the run must stop.
func (p *Pipeline) transition(ctx context.Context, jobID, progressHint string) bool {
	err := p.jobs.Transition(ctx, jobID, model.StatusRunning, progressHint)
	if err == nil {
		return true
	}
	if errors.Is(err, store.ErrNotFound) {
		slog.Warn("Job expired mid-pipeline, abandoning run", "job_id", jobID)
	} else if errors.Is(err, store.ErrTerminalState) {
		slog.Warn("Job already terminal, abandoning run", "job_id", jobID)
	} else {
		slog.Error("Failed to transition job", "job_id", jobID, "error", err.Error())
	}
	return false
}

func (p *Pipeline) refreshClaim(ctx context.Context, jobID, fp string) {
	if err := p.claims.Refresh(ctx, fp); err != nil {
		slog.Warn("Failed to refresh claim", "job_id", jobID, "error", err.Error())
	}
}

func (p *Pipeline) failJob(ctx context.Context, jobID, diagnostic string) {
	if err := p.jobs.Fail(ctx, jobID, diagnostic); err != nil {
		slog.Error("Failed to mark job failed",
			"job_id", jobID,
			"diagnostic", diagnostic,
			"error", err.Error(),
		)
	}
}

// synthesisDiagnostic converts a synthesis error into the short string
// exposed on the failed job
func synthesisDiagnostic(err error) string {
	switch {
	case errors.Is(err, synthesis.ErrSchemaInvalid):
		return "synthesis produced no schema-valid report within the retry budget"
	case errors.Is(err, synthesis.ErrProviderError):
		return "synthesis provider unavailable after retries"
	default:
		return "synthesis failed: " + err.Error()
	}
}
