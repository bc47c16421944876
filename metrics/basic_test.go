package metrics

import (
	"reflect"
	"runtime"
	"sync"
	"testing"
)

func TestBasicProvider_Counter_ReusedAndAccumulates(t *testing.T) {
	p := NewBasicProvider()

	c1 := p.Counter("invocations_total", WithDescription("invocations started"))
	c2 := p.Counter("invocations_total")

	if reflect.ValueOf(c1).Pointer() != reflect.ValueOf(c2).Pointer() {
		t.Fatalf("expected same counter instance for same name")
	}

	c1.Add(3)
	c2.Add(2)
	if got := p.CounterValue("invocations_total"); got != 5 {
		t.Fatalf("counter value = %d; want 5", got)
	}
	if got := p.Description("invocations_total"); got != "invocations started" {
		t.Fatalf("description = %q; want first registration to win", got)
	}
	if got := p.CounterValue("unknown"); got != 0 {
		t.Fatalf("unknown counter = %d; want 0", got)
	}
}

func TestBasicProvider_UpDownCounter_Moves(t *testing.T) {
	p := NewBasicProvider()
	u := p.UpDownCounter("inflight_invocations")

	u.Add(+3)
	u.Add(-1)
	u.Add(+10)
	if got := p.CounterValue("inflight_invocations"); got != 12 {
		t.Fatalf("updown value = %d; want 12", got)
	}
}

func TestBasicProvider_Histogram_RecordsStats(t *testing.T) {
	p := NewBasicProvider()
	h := p.Histogram("invocation_seconds")

	if s := p.HistogramSnapshot("invocation_seconds"); s.Count != 0 || s.Mean != 0 {
		t.Fatalf("empty snapshot = %+v", s)
	}

	h.Record(0.3)
	h.Record(0.1)
	h.Record(0.2)
	s := p.HistogramSnapshot("invocation_seconds")
	if s.Count != 3 {
		t.Fatalf("count = %d; want 3", s.Count)
	}
	if s.Min != 0.1 || s.Max != 0.3 {
		t.Fatalf("min/max = (%v,%v); want (0.1,0.3)", s.Min, s.Max)
	}
	if s.Mean < 0.19 || s.Mean > 0.21 {
		t.Fatalf("mean = %v; want ~0.2", s.Mean)
	}
}

func TestBasicProvider_Concurrent_CounterAdd(t *testing.T) {
	p := NewBasicProvider()

	workers := runtime.NumCPU() * 2
	iters := 1000
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			// instrument lookup races with recording on purpose
			c := p.Counter("hits")
			for i := 0; i < iters; i++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()
	if got, want := p.CounterValue("hits"), int64(workers*iters); got != want {
		t.Fatalf("counter = %d; want %d", got, want)
	}
}

func TestNoopProvider_Discards(t *testing.T) {
	var p Provider = NewNoopProvider()
	p.Counter("a").Add(1)
	p.UpDownCounter("b").Add(-1)
	p.Histogram("c").Record(1)
}
