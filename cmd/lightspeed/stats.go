package main

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Stats summarises invocation latencies in milliseconds.
type Stats struct {
	Count  int64   `json:"count" yaml:"count"`
	MinMs  float64 `json:"min_ms" yaml:"min_ms"`
	MeanMs float64 `json:"mean_ms" yaml:"mean_ms"`
	P50Ms  float64 `json:"p50_ms" yaml:"p50_ms"`
	P90Ms  float64 `json:"p90_ms" yaml:"p90_ms"`
	P99Ms  float64 `json:"p99_ms" yaml:"p99_ms"`
	MaxMs  float64 `json:"max_ms" yaml:"max_ms"`
}

func (s Stats) String() string {
	return fmt.Sprintf("latency ms: count=%d min=%.2f mean=%.2f p50=%.2f p90=%.2f p99=%.2f max=%.2f",
		s.Count, s.MinMs, s.MeanMs, s.P50Ms, s.P90Ms, s.P99Ms, s.MaxMs)
}

// latencyStats records elapsed times in microseconds, from 1µs up to one hour.
func latencyStats(results []Result) Stats {
	h := hdrhistogram.New(1, int64(time.Hour/time.Microsecond), 3)
	for _, r := range results {
		us := r.Elapsed.Microseconds()
		if us < h.LowestTrackableValue() {
			us = h.LowestTrackableValue()
		}
		if us > h.HighestTrackableValue() {
			us = h.HighestTrackableValue()
		}
		_ = h.RecordValue(us)
	}

	if h.TotalCount() == 0 {
		return Stats{}
	}
	return Stats{
		Count:  h.TotalCount(),
		MinMs:  usToMs(float64(h.Min())),
		MeanMs: usToMs(h.Mean()),
		P50Ms:  usToMs(float64(h.ValueAtQuantile(50))),
		P90Ms:  usToMs(float64(h.ValueAtQuantile(90))),
		P99Ms:  usToMs(float64(h.ValueAtQuantile(99))),
		MaxMs:  usToMs(float64(h.Max())),
	}
}

func usToMs(us float64) float64 { return us / 1000 }
