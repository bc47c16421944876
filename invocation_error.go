package lightspeed

import (
	"errors"
	"fmt"
)

// InvocationError reports a failed invocation of a callable.
// Error returns the callable's own message and Unwrap returns the callable's error,
// so errors.Is/errors.As see through it. It also matches ErrInvocation.
type InvocationError struct {
	// Err is the error returned (or the panic recovered) by the callable.
	Err error
	// Index is the submission index of the failed invocation; 0 for Run.
	Index int
	// DescriptorID identifies the descriptor the invocation was made from.
	DescriptorID string
}

func newInvocationError(err error, index int, id string) error {
	if err == nil {
		return nil
	}
	return &InvocationError{Err: err, Index: index, DescriptorID: id}
}

func (e *InvocationError) Error() string { return e.Err.Error() }
func (e *InvocationError) Unwrap() error { return e.Err }

// Is reports ErrInvocation as a match in addition to the wrapped chain.
func (e *InvocationError) Is(target error) bool { return target == ErrInvocation }

func (e *InvocationError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "invocation(index=%d,descriptor=%s): %+v", e.Index, e.DescriptorID, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractIndex returns the submission index carried by err, if any.
func ExtractIndex(err error) (int, bool) {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Index, true
	}
	return 0, false
}

// ExtractDescriptorID returns the descriptor ID carried by err, if any.
func ExtractDescriptorID(err error) (string, bool) {
	var ie *InvocationError
	if errors.As(err, &ie) && ie.DescriptorID != "" {
		return ie.DescriptorID, true
	}
	return "", false
}
