package worker

import (
	"errors"
	"sync"
)

// WorkerPool owns a fixed set of workers and runs each on its own
// goroutine. The pool's WaitGroup is managed internally; consumers
// use Wait to block until every worker has drained its task.
type WorkerPool struct {
	workers []Worker
	wg      sync.WaitGroup
	started bool
}

// NewWorkerPool creates a new WorkerPool struct
// and initialises the 'workers' slice.
func NewWorkerPool() *WorkerPool {
	return &WorkerPool{workers: make([]Worker, 0)}
}

// Start cycles through all the workers currently inside the
// WorkerPool and creates a goroutine for each. The 'Start' method of
// each worker is executed concurrently.
//
// Start does NOT block; use Wait to block until all workers
// have finished.
func (pool *WorkerPool) Start() error {
	if pool.started {
		return errors.New("cannot start an already started worker pool")
	}

	pool.started = true
	for _, worker := range pool.workers {
		pool.wg.Add(1)
		go func(wg *sync.WaitGroup, w Worker) {
			defer wg.Done()
			w.Start()
		}(&pool.wg, worker)
	}

	return nil
}

// PushWorker inserts the workers provided in to the worker pool.
// Workers can only be pushed before the pool is started.
func (pool *WorkerPool) PushWorker(workers ...Worker) error {
	if pool.started {
		return errors.New("cannot push worker to already started worker pool")
	}

	pool.workers = append(pool.workers, workers...)
	return nil
}

// Wait blocks until every worker in a started pool has stopped.
func (pool *WorkerPool) Wait() {
	if !pool.started {
		return
	}

	pool.wg.Wait()
}

// Size returns the number of workers attached to this pool.
func (pool *WorkerPool) Size() int {
	return len(pool.workers)
}
