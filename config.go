package lightspeed

import (
	"log/slog"
	"sync"

	"github.com/ygrebnov/errorc"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/semaphore"

	"github.com/ygrebnov/lightspeed/metrics"
	"github.com/ygrebnov/lightspeed/pool"
)

// config holds Dispatcher configuration.
type config struct {
	// MaxWorkers is the size of the pool built for every call.
	// Zero (default) means the number of logical CPUs at build time.
	MaxWorkers uint

	// Lock is held around every single invocation.
	// Default: HostLock.
	Lock sync.Locker

	// Budget is the semaphore worker slots are taken from when a pool is built.
	// Default: pool.DefaultBudget.
	Budget *semaphore.Weighted

	// Metrics receives invocation and pool instruments.
	// Default: metrics.NoopProvider.
	Metrics metrics.Provider

	// TracerProvider creates the tracer used for per-call spans.
	// Default: a no-op provider.
	TracerProvider trace.TracerProvider

	// Logger receives debug records about pools and calls.
	// Default: discards everything.
	Logger *slog.Logger
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		MaxWorkers:     0, // detected per call
		Lock:           HostLock,
		Budget:         pool.DefaultBudget,
		Metrics:        metrics.NewNoopProvider(),
		TracerProvider: noop.NewTracerProvider(),
		Logger:         slog.New(slog.DiscardHandler),
	}
}

// validateConfig performs lightweight invariants checks.
// Options already reject nil collaborators and a zero MaxWorkers; a MaxWorkers the
// budget cannot satisfy is reported per call as ErrPoolBuild, not here.
func validateConfig(_ *config) error {
	return nil
}

// Option configures a Dispatcher.
type Option func(*config) error

// WithMaxWorkers sets the number of workers of the pool built for each call (must be > 0).
// Without it the pool size is the number of logical CPUs.
func WithMaxWorkers(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMaxWorkers requires n > 0"))
		}
		cfg.MaxWorkers = n
		return nil
	}
}

// WithExecutionLock replaces HostLock as the lock held around each invocation.
func WithExecutionLock(l sync.Locker) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithExecutionLock requires a non-nil lock"))
		}
		cfg.Lock = l
		return nil
	}
}

// WithUnlockedExecution runs invocations without any execution lock.
// Use it only for callables that are safe for concurrent use.
func WithUnlockedExecution() Option {
	return func(cfg *config) error { cfg.Lock = unlocked{}; return nil }
}

// WithWorkerBudget takes pool workers from b instead of pool.DefaultBudget.
// A call fails with ErrPoolBuild when b cannot provide the workers.
func WithWorkerBudget(b *semaphore.Weighted) Option {
	return func(cfg *config) error {
		if b == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithWorkerBudget requires a non-nil semaphore"))
		}
		cfg.Budget = b
		return nil
	}
}

// WithMetrics records invocation and pool metrics into p.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithTracerProvider creates per-call spans with tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) error {
		if tp == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithTracerProvider requires a non-nil provider"))
		}
		cfg.TracerProvider = tp
		return nil
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}
