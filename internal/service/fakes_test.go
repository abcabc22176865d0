package service

import (
	"context"
	"sync"
	"time"

	"github.com/faultline/faultline/internal/model"
	"github.com/faultline/faultline/internal/store"
	"github.com/faultline/faultline/internal/synthesis"
	"github.com/faultline/faultline/internal/worker"
)

// fakeJobStore mirrors the Redis job store semantics in memory
type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[string]*model.Job
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*model.Job)}
}

func (f *fakeJobStore) Create(_ context.Context, job *model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[job.JobID]; ok {
		return store.ErrAlreadyExists
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	copied := *job
	f.jobs[job.JobID] = &copied
	return nil
}

func (f *fakeJobStore) Get(_ context.Context, jobID string) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobStore) update(jobID string, fn func(*model.Job)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return store.ErrNotFound
	}
	if job.Status.Terminal() {
		return store.ErrTerminalState
	}
	fn(job)
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeJobStore) Transition(_ context.Context, jobID string, status model.JobStatus, progressHint string) error {
	return f.update(jobID, func(job *model.Job) {
		job.Status = status
		if progressHint != "" {
			job.ProgressHint = progressHint
		}
	})
}

func (f *fakeJobStore) Complete(_ context.Context, jobID string, result *model.AnalysisReport, markdown string) error {
	return f.update(jobID, func(job *model.Job) {
		job.Status = model.StatusCompleted
		job.ProgressHint = "Analysis complete"
		job.Result = result
		job.Markdown = markdown
	})
}

func (f *fakeJobStore) Fail(_ context.Context, jobID string, errMsg string) error {
	return f.update(jobID, func(job *model.Job) {
		job.Status = model.StatusFailed
		job.ProgressHint = "Analysis failed"
		job.Error = errMsg
	})
}

func (f *fakeJobStore) List(_ context.Context) ([]model.JobSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summaries := make([]model.JobSummary, 0, len(f.jobs))
	for _, job := range f.jobs {
		summaries = append(summaries, job.Summary())
	}
	return summaries, nil
}

func (f *fakeJobStore) delete(jobID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, jobID)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]model.CacheEntry
	writes  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]model.CacheEntry)}
}

func (f *fakeCache) Lookup(_ context.Context, fp string) (*model.CacheEntry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[fp]
	if !ok {
		return nil, false, nil
	}
	return &entry, true, nil
}

func (f *fakeCache) Store(_ context.Context, fp string, result *model.AnalysisReport, markdown string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[fp] = model.CacheEntry{Result: *result, Markdown: markdown}
	f.writes++
	return nil
}

type fakeClaims struct {
	mu        sync.Mutex
	owners    map[string]string
	refreshes int
	releases  int
	acquires  int

	// vanishes simulates the claim expiring between SetNX and the owner
	// read: the next N acquires report neither ownership nor an owner
	vanishes int
}

func newFakeClaims() *fakeClaims {
	return &fakeClaims{owners: make(map[string]string)}
}

func (f *fakeClaims) Acquire(_ context.Context, fp, jobID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acquires++
	if f.vanishes > 0 {
		f.vanishes--
		return "", false, nil
	}
	if owner, ok := f.owners[fp]; ok {
		return owner, false, nil
	}
	f.owners[fp] = jobID
	return jobID, true, nil
}

func (f *fakeClaims) Refresh(_ context.Context, fp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return nil
}

func (f *fakeClaims) Release(_ context.Context, fp, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owners[fp] == jobID {
		delete(f.owners, fp)
		f.releases++
	}
	return nil
}

func (f *fakeClaims) owner(fp string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owners[fp]
}

type fakeNormalizer struct {
	mu       sync.Mutex
	calls    int
	artifact *model.NormalizedArtifact
	panics   bool
}

func (f *fakeNormalizer) Normalize(_ string, _ model.ContentType) *model.NormalizedArtifact {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.panics {
		panic("normalizer exploded")
	}
	if f.artifact != nil {
		return f.artifact
	}
	return &model.NormalizedArtifact{Kind: "markdown"}
}

type fakeHeuristics struct {
	mu       sync.Mutex
	calls    int
	findings []model.HeuristicFinding
}

func (f *fakeHeuristics) Run(_ *model.NormalizedArtifact) []model.HeuristicFinding {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.findings
}

type fakeSynth struct {
	mu    sync.Mutex
	calls int
	out   *synthesis.Output
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, _ synthesis.Request) (*synthesis.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

// syncDispatcher runs tasks inline so tests see the pipeline's effects
// without goroutine coordination
type syncDispatcher struct {
	submissions int
}

func (d *syncDispatcher) Submit(task worker.Task) error {
	d.submissions++
	task.Run(context.Background())
	return nil
}

// capturingDispatcher queues tasks without running them
type capturingDispatcher struct {
	pending *[]func()
}

func (d *capturingDispatcher) Submit(task worker.Task) error {
	*d.pending = append(*d.pending, func() { task.Run(context.Background()) })
	return nil
}

type rejectingDispatcher struct{}

func (d *rejectingDispatcher) Submit(worker.Task) error {
	return worker.ErrQueueFull
}

func demoOutput() *synthesis.Output {
	return &synthesis.Output{
		Report: model.AnalysisReport{
			Score:    90,
			Summary:  "looks solid",
			Findings: []model.Finding{},
			Charts: []model.Chart{
				{Title: "a", Type: "pie", Data: []model.ChartDataPoint{{Label: "x", Value: 1}}},
				{Title: "b", Type: "bar", Data: []model.ChartDataPoint{{Label: "x", Value: 1}}},
				{Title: "c", Type: "line", Data: []model.ChartDataPoint{{Label: "x", Value: 1}}},
			},
			NextSteps: []string{"ship"},
		},
		Markdown: "# Report",
	}
}
