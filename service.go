package relay

import (
	"github.com/monzo/terrors/stack"
)

// A Service takes a request and produces a reply. It is built from a stack of steps which run in the order they were
// added, each transforming the reply of the steps before it.
//
// Service values are immutable: every builder returns a new Service and never modifies its input, so a partially
// built Service can be shared and extended in several directions.
type Service[Req, Rsp any] struct {
	frames []frame
}

// NewService returns the identity Service, whose reply is its request.
func NewService[T any]() Service[T, T] {
	return Service[T, T]{}
}

// ServiceFunc returns a Service with a single step, f.
func ServiceFunc[Req, Rsp any](f func(Req) (Rsp, error)) Service[Req, Rsp] {
	return Map(NewService[Req](), f)
}

// ServiceCallback returns a Service with a single step implemented by m. m.Init is called immediately with args; if it
// fails, the error is returned and no Service is built.
func ServiceCallback[Req, Rsp, Args, State any](m Mapper[Args, State, Req, Rsp], args Args) (Service[Req, Rsp], error) {
	return MapCallback(NewService[Req](), m, args)
}

// Map adds a step which transforms the reply of svc.
func Map[Req, A, B any](svc Service[Req, A], f func(A) (B, error)) Service[Req, B] {
	return Service[Req, B]{
		frames: push(svc.frames, mapFrame{
			f: func(v any) (any, error) {
				return f(as[A](v))
			}})}
}

// MapCallback is Map with a step implemented by m. m.Init is called immediately with args.
func MapCallback[Req, A, B, Args, State any](svc Service[Req, A], m Mapper[Args, State, A, B], args Args) (Service[Req, B], error) {
	f, err := mapperFrame(m, args)
	if err != nil {
		return Service[Req, B]{}, err
	}
	return Service[Req, B]{
		frames: push(svc.frames, f)}, nil
}

// Then sequences next after svc: next receives the reply of svc as its request. Handlers added to next which sit
// outside any request boundary of its own also intercept failures of svc, exactly as if next's steps had been added
// to svc one by one.
func Then[Req, Mid, Rsp any](svc Service[Req, Mid], next Service[Mid, Rsp]) Service[Req, Rsp] {
	if !hasBoundary(next.frames) {
		return Service[Req, Rsp]{
			frames: push(svc.frames, next.frames...)}
	}
	return Service[Req, Rsp]{
		frames: push(svc.frames, thenFrame{
			frames: next.frames})}
}

// Transform adds a step which maps the reply of svc on success, and converts a failure of any earlier step into a
// reply with handler. Errors returned by mapper or handler are not intercepted by the same step.
func Transform[Req, A, B any](svc Service[Req, A], mapper func(A) (B, error), handler func(error) (B, error)) Service[Req, B] {
	return TransformWithTrace(svc, mapper, func(err error, _ stack.Stack) (B, error) {
		return handler(err)
	})
}

// TransformWithTrace is Transform, with handler also receiving the trace captured when the failure was first
// observed.
func TransformWithTrace[Req, A, B any](svc Service[Req, A], mapper func(A) (B, error), handler func(error, stack.Stack) (B, error)) Service[Req, B] {
	return Service[Req, B]{
		frames: push(svc.frames, catchFrame{
			mapper: func(v any) (any, error) {
				return mapper(as[A](v))
			},
			handler: func(err error, trace stack.Stack) (any, error) {
				return handler(err, trace)
			}})}
}

// Into adds a request boundary to svc. t receives each request of the new Service, along with a continuation which
// evaluates svc; it decides whether, how often and with what request the continuation is called.
func Into[Req, Rsp, Req2, Rsp2 any](svc Service[Req, Rsp], t func(Req2, func(Req) (Rsp, error)) (Rsp2, error)) Service[Req2, Rsp2] {
	return Service[Req2, Rsp2]{
		frames: push(svc.frames, intoFrame{
			t: func(req any, next func(any) (any, error)) (any, error) {
				return t(as[Req2](req), typed[Req, Rsp](next))
			}})}
}

// Handle adds a step which converts a failure of any earlier step into a reply. Successful replies pass through.
func (svc Service[Req, Rsp]) Handle(handler func(error) (Rsp, error)) Service[Req, Rsp] {
	return svc.HandleWithTrace(func(err error, _ stack.Stack) (Rsp, error) {
		return handler(err)
	})
}

// HandleWithTrace is Handle, with handler also receiving the trace captured when the failure was first observed.
func (svc Service[Req, Rsp]) HandleWithTrace(handler func(error, stack.Stack) (Rsp, error)) Service[Req, Rsp] {
	return Service[Req, Rsp]{
		frames: push(svc.frames, catchFrame{
			handler: func(err error, trace stack.Stack) (any, error) {
				return handler(err, trace)
			}})}
}

// Each adds a side effect which observes the reply. The reply passes through unchanged; an error from f fails the
// Service.
func (svc Service[Req, Rsp]) Each(f func(Rsp) error) Service[Req, Rsp] {
	return Service[Req, Rsp]{
		frames: push(svc.frames, eachFrame{
			f: func(v any) error {
				return f(as[Rsp](v))
			}})}
}

// Ensure adds thunk to run exactly once after the earlier steps finish, however they finish: with a reply, an error
// or a panic. Failures propagate unchanged once it has run.
func (svc Service[Req, Rsp]) Ensure(thunk func()) Service[Req, Rsp] {
	return Service[Req, Rsp]{
		frames: push(svc.frames, ensureFrame{
			thunk: thunk})}
}

// Filter vends a new service wrapped in the passed filter.
func (svc Service[Req, Rsp]) Filter(f Filter[Req, Rsp, Req, Rsp]) Service[Req, Rsp] {
	return f.Apply(svc)
}

// Init compiles svc into a function. The function may be called any number of times, concurrently; nothing is
// retained between calls.
func (svc Service[Req, Rsp]) Init() func(Req) (Rsp, error) {
	frames := svc.frames
	return func(req Req) (Rsp, error) {
		return run[Rsp](evalService(frames, req, nil))
	}
}

// Call evaluates svc once against req.
func (svc Service[Req, Rsp]) Call(req Req) (Rsp, error) {
	return run[Rsp](evalService(svc.frames, req, nil))
}

// run converts an evaluator outcome back into a typed reply. The caller sees the error exactly as it was raised.
func run[Rsp any](v any, flt *fault) (Rsp, error) {
	if flt != nil {
		var zero Rsp
		return zero, flt.err
	}
	return as[Rsp](v), nil
}

// typed adapts an erased continuation to a typed one.
func typed[Req, Rsp any](next func(any) (any, error)) func(Req) (Rsp, error) {
	return func(req Req) (Rsp, error) {
		v, err := next(req)
		return as[Rsp](v), err
	}
}
