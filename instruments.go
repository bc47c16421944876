package lightspeed

import (
	"time"

	"github.com/ygrebnov/lightspeed/metrics"
)

// Metric names recorded by a Dispatcher.
const (
	MetricInvocations        = "lightspeed_invocations_total"
	MetricInvocationFailures = "lightspeed_invocation_failures_total"
	MetricInflight           = "lightspeed_inflight_invocations"
	MetricInvocationSeconds  = "lightspeed_invocation_seconds"
	MetricPoolsBuilt         = "lightspeed_pools_built_total"
	MetricPoolBuildFailures  = "lightspeed_pool_build_failures_total"
)

type instruments struct {
	invocations   metrics.Counter
	failures      metrics.Counter
	inflight      metrics.UpDownCounter
	latency       metrics.Histogram
	poolsBuilt    metrics.Counter
	poolsRejected metrics.Counter
}

func newInstruments(p metrics.Provider) instruments {
	return instruments{
		invocations: p.Counter(MetricInvocations,
			metrics.WithDescription("Invocations started."), metrics.WithUnit("1")),
		failures: p.Counter(MetricInvocationFailures,
			metrics.WithDescription("Invocations that returned an error or panicked."), metrics.WithUnit("1")),
		inflight: p.UpDownCounter(MetricInflight,
			metrics.WithDescription("Invocations currently running."), metrics.WithUnit("1")),
		latency: p.Histogram(MetricInvocationSeconds,
			metrics.WithDescription("Invocation duration, lock wait included."), metrics.WithUnit("seconds")),
		poolsBuilt: p.Counter(MetricPoolsBuilt,
			metrics.WithDescription("Per-call worker pools built."), metrics.WithUnit("1")),
		poolsRejected: p.Counter(MetricPoolBuildFailures,
			metrics.WithDescription("Per-call worker pools that could not be built."), metrics.WithUnit("1")),
	}
}

func (in instruments) invocationStarted() {
	in.invocations.Add(1)
	in.inflight.Add(1)
}

func (in instruments) invocationFinished(d time.Duration, err error) {
	in.inflight.Add(-1)
	in.latency.Record(d.Seconds())
	if err != nil {
		in.failures.Add(1)
	}
}
