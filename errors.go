package relay

import (
	"errors"

	"github.com/monzo/terrors"
	"github.com/monzo/terrors/stack"
)

// A fault is a failure travelling through the evaluator, along with the trace captured when it was first observed.
// Faults never escape the package: callers only ever see the underlying error.
type fault struct {
	err   error
	trace stack.Stack
}

// raise captures a fault for err. If err is (or wraps) a terror which carries stack frames, those are used as the
// trace since they describe where the error was created; otherwise the current stack is recorded.
func raise(err error) *fault {
	var terr *terrors.Error
	if errors.As(err, &terr) && len(terr.StackFrames) > 0 {
		return &fault{
			err:   err,
			trace: terr.StackFrames}
	}
	return &fault{
		err:   err,
		trace: stack.BuildStack(2)} // skip BuildStack and raise
}

// follow converts err into a fault. When err is, or wraps, the error of an earlier fault, that fault's trace is kept:
// a handler or transformer which re-returns an error has not raised a new one.
func follow(prev *fault, err error) *fault {
	if prev != nil && errors.Is(err, prev.err) {
		return &fault{
			err:   err,
			trace: prev.trace}
	}
	return raise(err)
}

// lift converts a step's (value, error) return into an evaluator outcome.
func lift(v any, err error) (any, *fault) {
	if err != nil {
		return nil, raise(err)
	}
	return v, nil
}

// settle is lift for an error which may be a re-return of prev's.
func settle(prev *fault, v any, err error) (any, *fault) {
	if err != nil {
		return nil, follow(prev, err)
	}
	return v, nil
}

// TraceOf returns the stack trace carried by err if it is, or wraps, a terror. Handlers installed without a trace
// can use this to recover one from terrors they receive.
func TraceOf(err error) stack.Stack {
	var terr *terrors.Error
	if errors.As(err, &terr) {
		return terr.StackFrames
	}
	return nil
}
