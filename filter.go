package relay

// Filters compose with Services to modify their behaviour. They might change a service's input or output, or elect not
// to call the underlying service at all.
//
// These are typically useful to encapsulate common logic that is shared among multiple Services. Authentication,
// authorisation, rate limiting, and tracing are good examples.
//
// A Filter[Req, Rsp, InReq, InRsp] accepts a Req and replies with an Rsp, calling a continuation which accepts an InReq
// and replies with an InRsp. Its steps run in the order they were added: the first is outermost, seeing the request
// first and the reply last, and each later step wraps only the continuation of the steps before it.
//
// Like Services, Filter values are immutable.
type Filter[Req, Rsp, InReq, InRsp any] struct {
	frames []frame
}

// NewFilter returns the identity Filter, which calls its continuation with the request it was given.
func NewFilter[Req, Rsp any]() Filter[Req, Rsp, Req, Rsp] {
	return Filter[Req, Rsp, Req, Rsp]{}
}

// FilterFunc returns a Filter with a single step, t.
func FilterFunc[Req, Rsp, InReq, InRsp any](t func(Req, func(InReq) (InRsp, error)) (Rsp, error)) Filter[Req, Rsp, InReq, InRsp] {
	return Wrap(NewFilter[Req, Rsp](), t)
}

// FilterCallback returns a Filter with a single step implemented by w. w.Init is called immediately with args.
func FilterCallback[Req, Rsp, InReq, InRsp, Args, State any](w Wrapper[Args, State, Req, Rsp, InReq, InRsp], args Args) (Filter[Req, Rsp, InReq, InRsp], error) {
	return WrapCallback(NewFilter[Req, Rsp](), w, args)
}

// Wrap adds t as the innermost step of f: t receives the requests f's existing steps pass to their continuation, and
// its own continuation becomes the continuation of the result.
func Wrap[Req, Rsp, InReq, InRsp, InReq2, InRsp2 any](f Filter[Req, Rsp, InReq, InRsp], t func(InReq, func(InReq2) (InRsp2, error)) (InRsp, error)) Filter[Req, Rsp, InReq2, InRsp2] {
	return Filter[Req, Rsp, InReq2, InRsp2]{
		frames: push(f.frames, intoFrame{
			t: func(req any, next func(any) (any, error)) (any, error) {
				return t(as[InReq](req), typed[InReq2, InRsp2](next))
			}})}
}

// WrapCallback is Wrap with a step implemented by w. w.Init is called immediately with args.
func WrapCallback[Req, Rsp, InReq, InRsp, InReq2, InRsp2, Args, State any](f Filter[Req, Rsp, InReq, InRsp], w Wrapper[Args, State, InReq, InRsp, InReq2, InRsp2], args Args) (Filter[Req, Rsp, InReq2, InRsp2], error) {
	fr, err := wrapperFrame(w, args)
	if err != nil {
		return Filter[Req, Rsp, InReq2, InRsp2]{}, err
	}
	return Filter[Req, Rsp, InReq2, InRsp2]{
		frames: push(f.frames, fr)}, nil
}

// Nest places inner inside f: every step of inner runs within the continuation of f's steps.
func Nest[Req, Rsp, InReq, InRsp, InReq2, InRsp2 any](f Filter[Req, Rsp, InReq, InRsp], inner Filter[InReq, InRsp, InReq2, InRsp2]) Filter[Req, Rsp, InReq2, InRsp2] {
	return Filter[Req, Rsp, InReq2, InRsp2]{
		frames: push(f.frames, inner.frames...)}
}

// Apply attaches f to svc, producing a Service whose requests pass through f's steps before reaching svc. The
// Service's stack is svc's with f's steps added on top as request boundaries, innermost first, so Apply(svc).Call(r)
// behaves exactly as CallService(r, svc).
func (f Filter[Req, Rsp, InReq, InRsp]) Apply(svc Service[InReq, InRsp]) Service[Req, Rsp] {
	frames := make([]frame, 0, len(svc.frames)+len(f.frames))
	frames = append(frames, svc.frames...)
	for i := len(f.frames) - 1; i >= 0; i-- {
		frames = append(frames, f.frames[i])
	}
	return Service[Req, Rsp]{
		frames: frames}
}

// Init compiles f into a function of a request and a continuation.
func (f Filter[Req, Rsp, InReq, InRsp]) Init() func(Req, func(InReq) (InRsp, error)) (Rsp, error) {
	frames := f.frames
	return func(req Req, next func(InReq) (InRsp, error)) (Rsp, error) {
		return run[Rsp](evalFilter(frames, req, terminal(next)))
	}
}

// Call evaluates f once against req, with next as the innermost continuation.
func (f Filter[Req, Rsp, InReq, InRsp]) Call(req Req, next func(InReq) (InRsp, error)) (Rsp, error) {
	return run[Rsp](evalFilter(f.frames, req, terminal(next)))
}

// CallService evaluates f once against req, with svc as the innermost continuation.
func (f Filter[Req, Rsp, InReq, InRsp]) CallService(req Req, svc Service[InReq, InRsp]) (Rsp, error) {
	frames := svc.frames
	return run[Rsp](evalFilter(f.frames, req, func(r any) (any, *fault) {
		return evalService(frames, r, nil)
	}))
}

// TransformFilter returns a Filter which maps the reply of its continuation with mapper, or converts its failure
// into a reply with handler. Only the continuation is guarded: errors from mapper or handler propagate.
func TransformFilter[Req, Rsp, InRsp any](mapper func(InRsp) (Rsp, error), handler func(error) (Rsp, error)) Filter[Req, Rsp, Req, InRsp] {
	return FilterFunc(func(req Req, next func(Req) (InRsp, error)) (Rsp, error) {
		rsp, err := next(req)
		if err != nil {
			return handler(err)
		}
		return mapper(rsp)
	})
}

// HandleFilter returns a Filter which converts a failure of its continuation into a reply with handler.
func HandleFilter[Req, Rsp any](handler func(error) (Rsp, error)) Filter[Req, Rsp, Req, Rsp] {
	return TransformFilter[Req](func(rsp Rsp) (Rsp, error) {
		return rsp, nil
	}, handler)
}

// EnsureFilter returns a Filter which runs thunk exactly once after its continuation finishes, however it finishes.
func EnsureFilter[Req, Rsp any](thunk func()) Filter[Req, Rsp, Req, Rsp] {
	return FilterFunc(func(req Req, next func(Req) (Rsp, error)) (Rsp, error) {
		defer thunk()
		return next(req)
	})
}

// terminal adapts a caller's continuation to the evaluator.
func terminal[InReq, InRsp any](next func(InReq) (InRsp, error)) func(any) (any, *fault) {
	return func(r any) (any, *fault) {
		return lift(next(as[InReq](r)))
	}
}
