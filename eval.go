package relay

import (
	"fmt"
)

// evalService evaluates a Service stack. The newest frame (the end of the slice) is applied to the outcome of the
// frames beneath it, so recursion always descends before applying the head and frames run in the order they were
// added.
//
// seed is the outcome the empty stack produces in place of the request. It is non-nil only when a thenFrame feeds a
// failure into a sequenced stack, where newer handlers may still intercept it.
func evalService(frames []frame, req any, seed *fault) (any, *fault) {
	if len(frames) == 0 {
		if seed != nil {
			return nil, seed
		}
		return req, nil
	}

	rest := frames[:len(frames)-1]
	switch f := frames[len(frames)-1].(type) {
	case mapFrame:
		v, flt := evalService(rest, req, seed)
		if flt != nil {
			return nil, flt
		}
		return lift(f.f(v))

	case callbackFrame:
		v, flt := evalService(rest, req, seed)
		if flt != nil {
			return nil, flt
		}
		return lift(f.call(v, f.state))

	case catchFrame:
		v, flt := evalService(rest, req, seed)
		if flt != nil {
			v, err := f.handler(flt.err, flt.trace)
			return settle(flt, v, err)
		}
		if f.mapper == nil {
			return v, nil
		}
		return lift(f.mapper(v))

	case eachFrame:
		v, flt := evalService(rest, req, seed)
		if flt != nil {
			return nil, flt
		}
		if err := f.f(v); err != nil {
			return nil, raise(err)
		}
		return v, nil

	case ensureFrame:
		defer f.thunk()
		return evalService(rest, req, seed)

	case intoFrame:
		if seed != nil {
			return nil, seed
		}
		return invoke(req, f.t, func(r any) (any, *fault) {
			return evalService(rest, r, nil)
		})

	case intoCallbackFrame:
		if seed != nil {
			return nil, seed
		}
		return invoke(req, f.bind(), func(r any) (any, *fault) {
			return evalService(rest, r, nil)
		})

	case thenFrame:
		v, flt := evalService(rest, req, seed)
		return evalService(f.frames, v, flt)

	default:
		panic(fmt.Sprintf("relay: unknown service frame %T", f))
	}
}

// evalFilter evaluates a Filter stack in insertion order: the head wraps everything after it, and the empty stack
// hands the request to the terminal continuation k.
func evalFilter(frames []frame, req any, k func(any) (any, *fault)) (any, *fault) {
	if len(frames) == 0 {
		return k(req)
	}

	next := func(r any) (any, *fault) {
		return evalFilter(frames[1:], r, k)
	}
	switch f := frames[0].(type) {
	case intoFrame:
		return invoke(req, f.t, next)
	case intoCallbackFrame:
		return invoke(req, f.bind(), next)
	default:
		panic(fmt.Sprintf("relay: unknown filter frame %T", f))
	}
}

// invoke calls a transformer with a continuation over next. The continuation hands the transformer plain errors; if
// the transformer returns one of them, the fault it came from is kept so its trace survives the boundary.
func invoke(req any, t func(any, func(any) (any, error)) (any, error), next func(any) (any, *fault)) (any, *fault) {
	var last *fault
	v, err := t(req, func(r any) (any, error) {
		v, flt := next(r)
		if flt != nil {
			last = flt
			return nil, flt.err
		}
		return v, nil
	})
	return settle(last, v, err)
}

func (f intoCallbackFrame) bind() func(any, func(any) (any, error)) (any, error) {
	return func(req any, next func(any) (any, error)) (any, error) {
		return f.call(req, next, f.state)
	}
}
