package worker

import "context"

// Task is one unit of asynchronous analysis work
type Task struct {
	JobID string
	Run   func(ctx context.Context)
}
