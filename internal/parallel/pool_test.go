package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStaticWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewStaticWorkerPool(4)
	defer pool.Shutdown()

	if got := pool.GetWorkerCount(); got != 4 {
		t.Errorf("expected worker count 4, got %d", got)
	}

	var completed int64
	var wg sync.WaitGroup
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			atomic.AddInt64(&completed, 1)
		}
		if err := pool.Submit(ctx, task); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	wg.Wait()
	if completed != 20 {
		t.Errorf("expected 20 completed tasks, got %d", completed)
	}
}

func TestStaticWorkerPoolDefaultsToNumCPU(t *testing.T) {
	pool := NewStaticWorkerPool(0)
	defer pool.Shutdown()

	if pool.GetWorkerCount() <= 0 {
		t.Errorf("expected a positive default worker count, got %d", pool.GetWorkerCount())
	}
}

func TestStaticWorkerPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewStaticWorkerPool(2)
	pool.Shutdown()

	err := pool.Submit(context.Background(), func() {})
	if !errors.Is(err, ErrPoolShutdown) {
		t.Errorf("expected ErrPoolShutdown, got %v", err)
	}
}

func TestStaticWorkerPoolSubmitRespectsContextCancellation(t *testing.T) {
	// A single-worker pool whose worker is permanently busy, so the next
	// Submit has to block on a full queue until ctx is cancelled.
	pool := NewStaticWorkerPool(1)
	defer pool.Shutdown()

	block := make(chan struct{})
	ctx := context.Background()
	if err := pool.Submit(ctx, func() { <-block }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// Fill the queue buffer (maxWorkers*2 = 2 slots) so a further Submit blocks.
	for i := 0; i < 2; i++ {
		_ = pool.Submit(ctx, func() {})
	}

	cancelCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.Submit(cancelCtx, func() {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	close(block)
}

func TestStaticWorkerPoolShutdownIsIdempotent(t *testing.T) {
	pool := NewStaticWorkerPool(2)
	pool.Shutdown()
	pool.Shutdown() // must not panic on double-close
}
