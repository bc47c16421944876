package lightspeed

import (
	"context"
	"sync"
)

// HostLock is the process-wide execution-context lock.
// By default every Dispatcher holds it for the duration of each single invocation,
// so invocations of callables that share host state never overlap.
var HostLock sync.Locker = &sync.Mutex{}

// unlocked is a sync.Locker that does nothing. Used by WithUnlockedExecution.
type unlocked struct{}

func (unlocked) Lock()   {}
func (unlocked) Unlock() {}

// lockHeldKey marks the context of an invocation with the lock its goroutine holds.
type lockHeldKey struct{}

func withHeldLock(ctx context.Context, l sync.Locker) context.Context {
	return context.WithValue(ctx, lockHeldKey{}, l)
}

// guarded runs call while holding l. The lock is released on return and on panic,
// and is never held across anything but the call itself.
func guarded[R any](l sync.Locker, call func() (R, error)) (R, error) {
	l.Lock()
	defer l.Unlock()
	return call()
}

// released runs wait without the lock held by the invocation ctx belongs to, if any,
// and takes the lock back before returning. A call made from inside a callable must
// not keep the lock while its own workers need it.
func released(ctx context.Context, wait func()) {
	l, ok := ctx.Value(lockHeldKey{}).(sync.Locker)
	if !ok {
		wait()
		return
	}
	l.Unlock()
	defer l.Lock()
	wait()
}
