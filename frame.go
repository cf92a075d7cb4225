package relay

import (
	"github.com/monzo/terrors/stack"
)

// A frame is one recorded composition step. Values flowing between frames are type-erased; the typed builders in
// service.go and filter.go recover concrete types at the frame boundary, so a frame never sees a value of a type it
// did not expect.
type frame interface {
	frame()
}

// mapFrame transforms the reply of the frames beneath it.
type mapFrame struct {
	f func(any) (any, error)
}

// callbackFrame is a mapFrame backed by a Mapper, holding the state its Init produced.
type callbackFrame struct {
	state any
	call  func(rsp, state any) (any, error)
}

// catchFrame intercepts failures of the frames beneath it. A nil mapper passes successful replies through.
type catchFrame struct {
	mapper  func(any) (any, error)
	handler func(error, stack.Stack) (any, error)
}

type eachFrame struct {
	f func(any) error
}

type ensureFrame struct {
	thunk func()
}

// intoFrame changes the request/reply boundary: the transformer receives the request and a continuation which
// evaluates everything beneath the frame.
type intoFrame struct {
	t func(req any, next func(any) (any, error)) (any, error)
}

// intoCallbackFrame is an intoFrame backed by a Wrapper.
type intoCallbackFrame struct {
	state any
	call  func(req any, next func(any) (any, error), state any) (any, error)
}

// thenFrame evaluates a sub-stack on the outcome of the frames beneath it. It is used when sequencing a Service which
// changes its own request type, where splicing frames would hand its transformers the wrong request.
type thenFrame struct {
	frames []frame
}

func (mapFrame) frame()          {}
func (callbackFrame) frame()     {}
func (catchFrame) frame()        {}
func (eachFrame) frame()         {}
func (ensureFrame) frame()       {}
func (intoFrame) frame()         {}
func (intoCallbackFrame) frame() {}
func (thenFrame) frame()         {}

// push returns a new slice holding frames followed by fs. The input is never written to, so builder values which
// share a prefix stay independent.
func push(frames []frame, fs ...frame) []frame {
	out := make([]frame, 0, len(frames)+len(fs))
	out = append(out, frames...)
	return append(out, fs...)
}

// hasBoundary reports whether any frame changes the request type.
func hasBoundary(frames []frame) bool {
	for _, f := range frames {
		switch f.(type) {
		case intoFrame, intoCallbackFrame:
			return true
		}
	}
	return false
}

// as recovers a typed value from an erased one. A nil interface becomes the zero value of T.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
