package relay

import (
	"fmt"

	"github.com/monzo/terrors"
)

// A Mapper is a reusable, stateful Service step. Init is called exactly once, when the step is added to a Service; the
// State it returns is passed to every subsequent Call.
//
// The library performs no locking around State. A Mapper whose Service is called concurrently must make its State
// safe for that itself.
type Mapper[Args, State, Req, Rsp any] interface {
	Init(args Args) (State, error)
	Call(req Req, state State) (Rsp, error)
}

// A Wrapper is a reusable, stateful Filter step. Like a Mapper it is initialised once, at construction; Call receives
// the continuation which evaluates everything it wraps.
type Wrapper[Args, State, Req, Rsp, InReq, InRsp any] interface {
	Init(args Args) (State, error)
	Call(req Req, next func(InReq) (InRsp, error), state State) (Rsp, error)
}

func initCallback[Args, State any](cb interface{ Init(Args) (State, error) }, args Args) (State, error) {
	state, err := cb.Init(args)
	if err != nil {
		return state, terrors.Augment(err, "Callback failed to initialise", map[string]string{
			"callback": fmt.Sprintf("%T", cb)})
	}
	return state, nil
}

func mapperFrame[Args, State, Req, Rsp any](m Mapper[Args, State, Req, Rsp], args Args) (frame, error) {
	state, err := initCallback[Args, State](m, args)
	if err != nil {
		return nil, err
	}
	return callbackFrame{
		state: state,
		call: func(rsp, state any) (any, error) {
			return m.Call(as[Req](rsp), as[State](state))
		}}, nil
}

func wrapperFrame[Args, State, Req, Rsp, InReq, InRsp any](w Wrapper[Args, State, Req, Rsp, InReq, InRsp], args Args) (frame, error) {
	state, err := initCallback[Args, State](w, args)
	if err != nil {
		return nil, err
	}
	return intoCallbackFrame{
		state: state,
		call: func(req any, next func(any) (any, error), state any) (any, error) {
			return w.Call(as[Req](req), typed[InReq, InRsp](next), as[State](state))
		}}, nil
}
