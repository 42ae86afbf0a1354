// Package parallel provides the fixed-size worker pool that executes
// subtree measurement tasks.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a pool of goroutines for parallel measurement.
//
// The pool distributes work items across multiple workers, each with
// their own queue. Workers can steal work from other workers when their
// own queue is empty, which balances load when some subtrees are much
// deeper than others.
//
// Submission is non-blocking: TrySubmit refuses work when every queue
// is full and the caller runs the task inline instead. A worker that is
// parked inside a fork-join wait therefore never deadlocks the pool:
// work that cannot be queued simply executes on the forking worker.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	// workers is the number of worker goroutines.
	workers int

	// workQueues holds per-worker work queues.
	workQueues []chan func()

	// next selects the queue for the next submission, round-robin.
	next atomic.Uint64

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Buffer size: a few items per worker hides scheduling latency.
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue)
			return

		case work := <-myQueue:
			if work != nil {
				work()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				select {
				case <-p.done:
					p.drainQueue(myQueue)
					return
				case work := <-myQueue:
					if work != nil {
						work()
					}
				}
			}
		}
	}
}

// drainQueue executes all remaining work in a queue.
func (p *Pool) drainQueue(queue chan func()) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *Pool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// TrySubmit queues a task without blocking. It returns false if the
// pool is closed or every queue is full, in which case the caller is
// expected to run the task inline.
func (p *Pool) TrySubmit(fn func()) bool {
	if fn == nil || !p.running.Load() {
		return false
	}

	start := int(p.next.Add(1)) % p.workers
	for i := range p.workers {
		q := p.workQueues[(start+i)%p.workers]
		select {
		case q <- fn:
			return true
		default:
		}
	}
	return false
}

// Fork runs tasks as a fork-join group: tasks are offered to the pool
// and the call blocks until every task has completed. Tasks that do
// not fit in any queue run on the calling goroutine. If ctx is
// cancelled, tasks that have not started yet are skipped; tasks
// already running finish normally. Fork returns ctx.Err after the
// join, or nil.
func (p *Pool) Fork(ctx context.Context, tasks []func()) error {
	if len(tasks) == 0 {
		return ctx.Err()
	}

	var join sync.WaitGroup
	join.Add(len(tasks))
	for _, fn := range tasks {
		task := fn
		wrapped := func() {
			defer join.Done()
			if ctx.Err() != nil {
				return
			}
			task()
		}
		if !p.TrySubmit(wrapped) {
			wrapped()
		}
	}
	join.Wait()
	return ctx.Err()
}

// Close gracefully shuts down the pool. It stops accepting new work,
// lets queued work drain, and stops all workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int { return p.workers }
