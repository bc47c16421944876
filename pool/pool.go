// Package pool builds the fixed-size worker pools used for a single dispatch call.
package pool

import (
	"errors"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// DefaultBudgetSize is the number of worker slots available process-wide through
// DefaultBudget.
const DefaultBudgetSize = 1 << 14

var (
	ErrBuild  = errors.New("pool: cannot build worker pool")
	ErrClosed = errors.New("pool: pool is closed")
)

// DefaultBudget bounds the total number of live workers across all pools built
// without an explicit Config.Budget.
var DefaultBudget = semaphore.NewWeighted(DefaultBudgetSize)

// Pool is an interface that defines methods on a pool of workers.
type Pool interface {
	// Submit hands a job to the pool. It may block while the queue is full.
	Submit(job func()) error

	// Size returns the number of workers.
	Size() int

	// Close stops accepting jobs, waits for queued and running jobs and retires the workers.
	Close()
}

// Config describes a pool to build.
type Config struct {
	// Workers is the number of workers. Zero means DefaultSize().
	Workers uint

	// Queue is the capacity of the job queue. Zero means Workers.
	Queue uint

	// Budget is the semaphore worker slots are taken from. Nil means DefaultBudget.
	Budget *semaphore.Weighted
}

// numCPU is replaced in tests.
var numCPU = runtime.NumCPU

// DefaultSize returns the number of workers used when none is configured:
// the number of logical CPUs usable by the process.
func DefaultSize() int { return defaultSize(numCPU) }

func defaultSize(n func() int) int {
	if c := n(); c > 0 {
		return c
	}
	return 1
}
