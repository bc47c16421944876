package lightspeed

import (
	"context"
	"time"

	"github.com/ygrebnov/errorc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ygrebnov/lightspeed/pool"
)

// call is the lifecycle of a single Run or Multiplier call: it starts the span,
// builds the call's own pool and, in end, joins every worker before the result is
// handed back. Nothing outlives a call.
type call struct {
	op    string
	ctx   context.Context
	span  trace.Span
	pool  pool.Pool
	start time.Time
	count int
}

// begin starts a call of op for count invocations of the descriptor id.
// On error no pool exists and the span is already ended.
func (d *Dispatcher[R]) begin(ctx context.Context, op, id string, count int) (*call, error) {
	ctx, span := d.tracer.Start(ctx, "lightspeed."+op, trace.WithAttributes(
		attribute.String("lightspeed.descriptor_id", id),
		attribute.Int("lightspeed.count", count),
	))
	c := &call{op: op, ctx: ctx, span: span, start: time.Now(), count: count}

	p, err := pool.Build(pool.Config{
		Workers: d.cfg.MaxWorkers,
		Queue:   uint(count),
		Budget:  d.cfg.Budget,
	})
	if err != nil {
		d.inst.poolsRejected.Add(1)
		err = errorc.With(ErrPoolBuild, errorc.String("cause", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "pool build failed")
		span.End()
		d.cfg.Logger.Debug("pool build failed", "op", op, "descriptor", id, "error", err)
		return nil, err
	}
	d.inst.poolsBuilt.Add(1)
	span.SetAttributes(attribute.Int("lightspeed.workers", p.Size()))
	d.cfg.Logger.Debug("pool built", "op", op, "descriptor", id, "workers", p.Size(), "count", count)

	c.pool = p
	return c, nil
}

// end retires the pool, waiting for every submitted job, then closes the span.
func (d *Dispatcher[R]) end(c *call, state callState, err error) {
	c.pool.Close()

	c.span.SetAttributes(attribute.String("lightspeed.state", state.String()))
	if err != nil {
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, state.String())
	}
	c.span.End()

	d.cfg.Logger.Debug("call finished",
		"op", c.op,
		"count", c.count,
		"state", state.String(),
		"elapsed", time.Since(c.start),
		"error", err,
	)
}
