package lightspeed

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Callable is the unit of work executed by a Dispatcher.
// It receives the positional and keyword arguments of its Descriptor.
// Arity and types are not checked before invocation; use Arg and Kwarg to read
// arguments and return their errors to report a mismatch.
//
//nolint:revive // generic constraint uses any for readability.
type Callable[R any] func(ctx context.Context, args Args, kwargs Kwargs) (R, error)

// Args is a read-only view of positional arguments.
// The zero value is an empty argument list.
type Args struct {
	values []any
}

// Len returns the number of positional arguments.
func (a Args) Len() int { return len(a.values) }

// At returns the i-th positional argument. It panics if i is out of range, like a slice.
func (a Args) At(i int) any { return a.values[i] }

// Values returns a copy of the positional arguments.
func (a Args) Values() []any {
	if len(a.values) == 0 {
		return nil
	}
	out := make([]any, len(a.values))
	copy(out, a.values)
	return out
}

// Kwargs is a read-only view of keyword arguments.
// The zero value means keyword arguments were not supplied.
type Kwargs struct {
	values map[string]any
}

// Len returns the number of keyword arguments.
func (k Kwargs) Len() int { return len(k.values) }

// Present reports whether keyword arguments were supplied at all.
func (k Kwargs) Present() bool { return k.values != nil }

// Get returns the keyword argument name.
func (k Kwargs) Get(name string) (any, bool) {
	v, ok := k.values[name]
	return v, ok
}

// Keys returns the keyword argument names in sorted order.
func (k Kwargs) Keys() []string {
	keys := make([]string, 0, len(k.values))
	for name := range k.values {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the keyword arguments, or nil when none were supplied.
func (k Kwargs) Map() map[string]any {
	if k.values == nil {
		return nil
	}
	out := make(map[string]any, len(k.values))
	for name, v := range k.values {
		out[name] = v
	}
	return out
}

// Arg returns the i-th positional argument as T.
func Arg[T any](args Args, i int) (T, error) {
	var zero T
	if i < 0 || i >= args.Len() {
		return zero, fmt.Errorf("%w: positional argument %d missing (have %d)", ErrArgument, i, args.Len())
	}
	v, ok := args.values[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: positional argument %d is %T, want %T", ErrArgument, i, args.values[i], zero)
	}
	return v, nil
}

// Kwarg returns the keyword argument name as T.
func Kwarg[T any](kwargs Kwargs, name string) (T, error) {
	var zero T
	raw, ok := kwargs.values[name]
	if !ok {
		return zero, fmt.Errorf("%w: keyword argument %q missing", ErrArgument, name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: keyword argument %q is %T, want %T", ErrArgument, name, raw, zero)
	}
	return v, nil
}

// Descriptor bundles a callable with its arguments.
// It is immutable once built by Wrap and is shared by reference between all
// invocations made from it; the argument payload is never copied again.
type Descriptor[R any] struct {
	id     string
	fn     Callable[R]
	args   []any
	kwargs map[string]any
	sealed bool
}

// Wrap builds a Descriptor. args and kwargs are copied, so later changes made by the
// caller are not observed by invocations. A nil kwargs map means "no keyword arguments".
func Wrap[R any](fn Callable[R], args []any, kwargs map[string]any) *Descriptor[R] {
	d := &Descriptor[R]{id: uuid.NewString(), fn: fn, sealed: true}
	if len(args) > 0 {
		d.args = make([]any, len(args))
		copy(d.args, args)
	}
	if kwargs != nil {
		d.kwargs = make(map[string]any, len(kwargs))
		for name, v := range kwargs {
			d.kwargs[name] = v
		}
	}
	return d
}

// ID returns the identifier assigned by Wrap.
func (d *Descriptor[R]) ID() string {
	if d == nil {
		return ""
	}
	return d.id
}

// Args returns a view of the positional arguments.
func (d *Descriptor[R]) Args() Args { return Args{values: d.args} }

// Kwargs returns a view of the keyword arguments.
func (d *Descriptor[R]) Kwargs() Kwargs { return Kwargs{values: d.kwargs} }

// views reconstructs the worker-side argument views. It fails for descriptors that
// were not produced by Wrap.
func (d *Descriptor[R]) views() (Callable[R], Args, Kwargs, error) {
	if d == nil || !d.sealed || d.fn == nil {
		return nil, Args{}, Kwargs{}, ErrArgumentMarshal
	}
	return d.fn, Args{values: d.args}, Kwargs{values: d.kwargs}, nil
}
