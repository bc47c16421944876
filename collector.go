package lightspeed

// completion is the outcome of one invocation, tagged with its submission index.
type completion[R any] struct {
	idx int
	val R
	err error
}

// collector aggregates the completions of one Multiplier call.
//
// Completions arrive in any order. Each value is stored at its submission index, so
// the returned slice is in index order regardless of completion order. When any
// invocation fails, the error of the lowest failing index is the call's result and
// every stored value is dropped. The collector never cancels outstanding work: it
// keeps receiving until all count completions arrived.
//
// A collector is used by the calling goroutine only.
type collector[R any] struct {
	vals     []R
	received int

	// lowest failing index seen so far; -1 while none
	failIdx int
	failErr error
}

func newCollector[R any](count int) *collector[R] {
	return &collector[R]{vals: make([]R, count), failIdx: -1}
}

// add records a single completion.
func (c *collector[R]) add(ev completion[R]) {
	c.received++
	if ev.err != nil {
		if c.failIdx < 0 || ev.idx < c.failIdx {
			c.failIdx, c.failErr = ev.idx, ev.err
		}
		return
	}
	if c.failIdx < 0 {
		c.vals[ev.idx] = ev.val
	}
}

// collect receives exactly len(vals) completions from events.
func (c *collector[R]) collect(events <-chan completion[R]) {
	for c.received < len(c.vals) {
		c.add(<-events)
	}
}

// state reports the terminal state once every completion was received.
func (c *collector[R]) state() callState {
	switch {
	case c.received < len(c.vals):
		return stateRunning
	case c.failIdx >= 0:
		return stateFirstFailure
	default:
		return stateAllSucceeded
	}
}

// result returns the ordered values, or the lowest-index error and no values.
func (c *collector[R]) result() ([]R, error) {
	if c.failIdx >= 0 {
		return nil, c.failErr
	}
	return c.vals, nil
}

type callState int

const (
	stateRunning callState = iota
	stateAllSucceeded
	stateFirstFailure
)

func (s callState) String() string {
	switch s {
	case stateAllSucceeded:
		return "all_succeeded"
	case stateFirstFailure:
		return "first_failure"
	default:
		return "running"
	}
}
