package pool

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Fixed is a pool with a fixed number of workers pulling jobs from one shared queue.
// Workers are started by Build and all of them are joined by Close.
type Fixed struct {
	jobs   chan func()
	group  errgroup.Group
	budget *semaphore.Weighted
	size   int

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

var _ Pool = (*Fixed)(nil)

// Build takes cfg.Workers slots from the budget and starts that many workers.
// It returns an error wrapping ErrBuild when the budget cannot provide the slots.
func Build(cfg Config) (*Fixed, error) {
	size := int(cfg.Workers)
	if size == 0 {
		size = DefaultSize()
	}
	queue := int(cfg.Queue)
	if queue == 0 {
		queue = size
	}
	budget := cfg.Budget
	if budget == nil {
		budget = DefaultBudget
	}

	if !budget.TryAcquire(int64(size)) {
		return nil, fmt.Errorf("%w: %d workers requested, budget exhausted", ErrBuild, size)
	}

	p := &Fixed{
		jobs:   make(chan func(), queue),
		budget: budget,
		size:   size,
	}
	for i := 0; i < size; i++ {
		p.group.Go(p.work)
	}
	return p, nil
}

// work is a worker's loop; it returns once the queue is closed and drained.
func (p *Fixed) work() error {
	for job := range p.jobs {
		job()
	}
	return nil
}

func (p *Fixed) Submit(job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.jobs <- job
	return nil
}

func (p *Fixed) Size() int { return p.size }

// Close is idempotent and safe for concurrent use.
func (p *Fixed) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()

		_ = p.group.Wait()
		p.budget.Release(int64(p.size))
	})
}
