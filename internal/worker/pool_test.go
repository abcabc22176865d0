package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(4, 16)
	p.Start()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		err := p.Submit(Task{
			JobID: "job",
			Run: func(context.Context) {
				defer wg.Done()
				ran.Add(1)
			},
		})
		require.NoError(t, err)
	}

	wg.Wait()
	p.Stop()
	assert.Equal(t, int32(10), ran.Load())
}

func TestPoolRejectsWhenQueueFull(t *testing.T) {
	p := NewPool(1, 1)
	p.Start()
	defer p.Stop()

	block := make(chan struct{})
	var wg sync.WaitGroup

	// occupy the single worker
	wg.Add(1)
	require.NoError(t, p.Submit(Task{Run: func(context.Context) {
		defer wg.Done()
		<-block
	}}))

	// wait until the worker picked the first task up, then fill the queue
	require.Eventually(t, func() bool {
		return p.Submit(Task{Run: func(context.Context) {}}) == nil
	}, time.Second, 5*time.Millisecond)

	err := p.Submit(Task{Run: func(context.Context) {}})
	assert.ErrorIs(t, err, ErrQueueFull)

	close(block)
	wg.Wait()
}

func TestPoolStopDrainsQueuedTasks(t *testing.T) {
	p := NewPool(2, 16)
	p.Start()

	var ran atomic.Int32
	for i := 0; i < 8; i++ {
		require.NoError(t, p.Submit(Task{Run: func(context.Context) {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		}}))
	}

	p.Stop()
	assert.Equal(t, int32(8), ran.Load())
}

func TestPoolRejectsAfterStop(t *testing.T) {
	p := NewPool(1, 4)
	p.Start()
	p.Stop()

	err := p.Submit(Task{Run: func(context.Context) {}})
	assert.ErrorIs(t, err, ErrQueueFull)
}
