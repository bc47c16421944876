// Package lightspeed executes a callable once or many times concurrently on a
// bounded worker pool and hands the outcome back to a single blocked caller.
//
// Constructor
//   - New[R](opts ...Option): returns a *Dispatcher[R]. A Dispatcher only holds
//     configuration; every call builds its own pool and retires it before returning.
//
// Calls
//   - Run / RunDescriptor: one invocation, its value or its error.
//   - Multiplier / MultiplierDescriptor: count invocations of the same descriptor;
//     values in submission order, or the error of the lowest failing index.
//
// Descriptors
// Wrap copies the callable's positional and keyword arguments once into an immutable
// Descriptor. All invocations of a call share that descriptor by reference and read
// it through the Args and Kwargs views.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created Dispatcher:
//   - MaxWorkers: number of logical CPUs, detected per call
//   - Execution lock: HostLock (process-wide)
//   - Worker budget: pool.DefaultBudget
//   - Metrics: no-op; Tracing: no-op; Logging: discarded
//
// Execution lock
// Each invocation runs while holding the execution lock, acquired right before the
// callable is called and released right after it returns. Workers waiting for work
// never hold it. A callable may call Run or Multiplier with the context it was given:
// the lock it holds is released while that nested call waits and taken back before
// the nested call returns. Use WithUnlockedExecution for callables that are safe for
// concurrent use, or WithExecutionLock to scope serialization to a narrower lock.
//
// Failures and cancellation
// Nothing is retried and nothing is cancelled: once submitted, every invocation of a
// call runs to completion even if another one already failed. The context passed to
// a call reaches the callable as-is. Errors returned by the callable keep their
// identity (errors.Is/As) and are wrapped in *InvocationError with the submission
// index. Panics are recovered and reported as ErrInvocationPanicked.
package lightspeed
