package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrQueueFull means the task queue has no room; the submission is
// rejected at the API boundary instead of silently lost
var ErrQueueFull = errors.New("worker queue full")

// Pool manages a bounded set of worker goroutines consuming analysis
// tasks. Replaces one fire-and-forget goroutine per request: the queue
// bounds memory and rejection is explicit when it overflows.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewPool creates a worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers: workers,
		tasks:   make(chan Task, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	slog.Info("Starting worker pool", "workers", p.workers, "queue_size", cap(p.tasks))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop stops the worker pool gracefully: queued tasks finish, then
// workers exit
func (p *Pool) Stop() {
	slog.Info("Stopping worker pool")

	p.mu.Lock()
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()

	slog.Info("Worker pool stopped")
}

// Submit enqueues a task without blocking. Fails with ErrQueueFull when
// the queue is saturated.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrQueueFull
	}

	select {
	case p.tasks <- task:
		slog.Debug("Task submitted to worker pool", "job_id", task.JobID)
		return nil
	default:
		return ErrQueueFull
	}
}

// QueueLength returns the current number of queued tasks
func (p *Pool) QueueLength() int {
	return len(p.tasks)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	slog.Debug("Worker started", "worker_id", id)

	for task := range p.tasks {
		slog.Debug("Worker processing task", "worker_id", id, "job_id", task.JobID)
		task.Run(p.ctx)
	}

	slog.Debug("Worker stopped", "worker_id", id)
}
