// Package parallel provides the fixed-size worker pool used to fan a local
// search phase's per-step move scoring out across goroutines.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// StaticWorkerPool is a fixed-size worker pool without dynamic scaling: the
// local search phase knows its move-thread count up front (it comes
// straight from LocalSearchPhase.MoveThreads) and never needs to grow or
// shrink it mid-step.
type StaticWorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewStaticWorkerPool creates a new static worker pool with fixed size. A
// non-positive maxWorkers defaults to the number of CPU cores.
func NewStaticWorkerPool(maxWorkers int) *StaticWorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &StaticWorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

func (swp *StaticWorkerPool) worker() {
	defer swp.workerWg.Done()

	for {
		select {
		case task := <-swp.taskChan:
			if task != nil {
				task()
			}
		case <-swp.shutdownChan:
			return
		}
	}
}

// Submit submits a task to the pool for execution. If the queue is full,
// Submit blocks until a slot opens, ctx is cancelled, or the pool shuts
// down.
func (swp *StaticWorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case <-swp.shutdownChan:
		return ErrPoolShutdown
	default:
	}
	select {
	case swp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-swp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting new tasks and waits for every worker to drain
// its current task before returning.
func (swp *StaticWorkerPool) Shutdown() {
	swp.once.Do(func() {
		close(swp.shutdownChan)
		swp.workerWg.Wait()
	})
}

// GetWorkerCount returns the pool's fixed worker count.
func (swp *StaticWorkerPool) GetWorkerCount() int { return swp.maxWorkers }

// GetQueueDepth returns the current number of queued tasks.
func (swp *StaticWorkerPool) GetQueueDepth() int { return len(swp.taskChan) }

// ErrPoolShutdown is returned when submitting to a pool that has already
// shut down.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shutdown")
