package lightspeed

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ygrebnov/lightspeed"

type indexKey struct{}

// InvocationIndex returns the submission index of the invocation ctx was passed to.
// It is 0 for Run and 0..count-1 for Multiplier.
func InvocationIndex(ctx context.Context) (int, bool) {
	idx, ok := ctx.Value(indexKey{}).(int)
	return idx, ok
}

// Dispatcher executes callables on a worker pool built for each call.
// A Dispatcher holds configuration only; it is safe for concurrent use and keeps no
// state between calls.
type Dispatcher[R any] struct {
	cfg    config
	inst   instruments
	tracer trace.Tracer
}

// New creates a Dispatcher configured by opts.
func New[R any](opts ...Option) (*Dispatcher[R], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &Dispatcher[R]{
		cfg:    cfg,
		inst:   newInstruments(cfg.Metrics),
		tracer: cfg.TracerProvider.Tracer(instrumentationName),
	}, nil
}

// Run invokes fn once with args and kwargs on a worker and blocks until it returns.
// See RunDescriptor.
func (d *Dispatcher[R]) Run(ctx context.Context, fn Callable[R], args []any, kwargs map[string]any) (R, error) {
	return d.RunDescriptor(ctx, Wrap(fn, args, kwargs))
}

// RunDescriptor submits a single invocation of desc to a new pool and blocks until it
// completes.
//
// Errors:
//   - ErrPoolBuild if the pool cannot be built; the callable is not invoked.
//   - ErrArgumentMarshal if desc was not built by Wrap.
//   - *InvocationError wrapping the callable's error (or ErrInvocationPanicked).
//
// ctx is handed to the callable unchanged; it does not cancel the invocation.
func (d *Dispatcher[R]) RunDescriptor(ctx context.Context, desc *Descriptor[R]) (R, error) {
	var zero R

	c, err := d.begin(ctx, "run", desc.ID(), 1)
	if err != nil {
		return zero, err
	}

	done := make(chan completion[R], 1)
	if err := c.pool.Submit(func() {
		v, err := d.invoke(c.ctx, desc, 0)
		done <- completion[R]{idx: 0, val: v, err: err}
	}); err != nil {
		done <- completion[R]{err: fmt.Errorf("%w: %w", ErrPoolBuild, err)}
	}
	var res completion[R]
	released(ctx, func() { res = <-done })

	state := stateAllSucceeded
	if res.err != nil {
		state = stateFirstFailure
		res.val = zero
	}
	d.end(c, state, res.err)
	return res.val, res.err
}

// Multiplier invokes fn count times concurrently with the same args and kwargs.
// See MultiplierDescriptor.
func (d *Dispatcher[R]) Multiplier(
	ctx context.Context,
	fn Callable[R],
	count int,
	args []any,
	kwargs map[string]any,
) ([]R, error) {
	return d.MultiplierDescriptor(ctx, Wrap(fn, args, kwargs), count)
}

// MultiplierDescriptor submits count independent invocations of desc to a new pool
// and blocks until all of them completed.
//
// Semantics:
//   - count == 0 returns an empty slice without building a pool or invoking anything.
//   - On success the results are ordered by submission index, not completion order.
//   - If any invocation fails, the error of the lowest failing index is returned with
//     nil results. Remaining invocations are not cancelled; their outcomes are dropped.
//   - count < 0 returns ErrInvalidCount.
func (d *Dispatcher[R]) MultiplierDescriptor(ctx context.Context, desc *Descriptor[R], count int) ([]R, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if count == 0 {
		return []R{}, nil
	}

	c, err := d.begin(ctx, "multiplier", desc.ID(), count)
	if err != nil {
		return nil, err
	}

	// Buffered for every completion: workers never block on a slow aggregator.
	events := make(chan completion[R], count)
	for i := 0; i < count; i++ {
		idx := i
		if err := c.pool.Submit(func() {
			v, err := d.invoke(c.ctx, desc, idx)
			events <- completion[R]{idx: idx, val: v, err: err}
		}); err != nil {
			events <- completion[R]{idx: idx, err: fmt.Errorf("%w: %w", ErrPoolBuild, err)}
		}
	}

	col := newCollector[R](count)
	released(ctx, func() { col.collect(events) })
	results, err := col.result()
	d.end(c, col.state(), err)
	return results, err
}

// invoke is the body of every job: it holds the execution lock, rebuilds the argument
// views from the shared descriptor and calls the callable. The lock is released as
// soon as the callable returns.
func (d *Dispatcher[R]) invoke(ctx context.Context, desc *Descriptor[R], index int) (R, error) {
	var marshalErr error

	ctx = withHeldLock(context.WithValue(ctx, indexKey{}, index), d.cfg.Lock)

	d.inst.invocationStarted()
	start := time.Now()
	res, err := guarded(d.cfg.Lock, func() (r R, err error) {
		fn, args, kwargs, vErr := desc.views()
		if vErr != nil {
			marshalErr = vErr
			return r, vErr
		}
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrInvocationPanicked, p)
			}
		}()
		return fn(ctx, args, kwargs)
	})
	d.inst.invocationFinished(time.Since(start), err)

	switch {
	case marshalErr != nil:
		return res, marshalErr
	case err != nil:
		var zero R
		return zero, newInvocationError(err, index, desc.ID())
	}
	return res, nil
}
