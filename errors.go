package lightspeed

import "errors"

const Namespace = "lightspeed"

var (
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
	ErrInvalidCount  = errors.New(Namespace + ": invocation count must not be negative")

	// ErrPoolBuild is returned when the per-call worker pool cannot be built.
	// No invocation has been started when it is returned.
	ErrPoolBuild = errors.New(Namespace + ": cannot build worker pool")

	// ErrInvocation is matched by every *InvocationError.
	ErrInvocation         = errors.New(Namespace + ": invocation failed")
	ErrInvocationPanicked = errors.New(Namespace + ": invocation panicked")

	// ErrArgumentMarshal is returned when a worker cannot reconstruct the argument
	// views of a descriptor, e.g. a zero-value Descriptor not built by Wrap.
	ErrArgumentMarshal = errors.New(Namespace + ": cannot reconstruct descriptor arguments")

	// ErrArgument is returned by Arg and Kwarg on a missing or mistyped argument.
	ErrArgument = errors.New(Namespace + ": invalid argument")
)
