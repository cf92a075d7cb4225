package relay

import (
	"fmt"

	"github.com/monzo/terrors"
)

// RecoverFilter converts a panic in its continuation into an internal_service.panic terror. The terror's stack frames
// are taken while the panic unwinds, so they include the panicking call.
//
// Without this filter panics are treated as faults rather than failures: they are not intercepted by any handler, and
// only steps added with Ensure observe them.
func RecoverFilter[Req, Rsp any]() Filter[Req, Rsp, Req, Rsp] {
	return FilterFunc(func(req Req, next func(Req) (Rsp, error)) (rsp Rsp, err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			var zero Rsp
			rsp = zero
			if cause, ok := r.(error); ok {
				err = terrors.NewInternalWithCause(cause, "Recovered from panic", nil, "panic")
			} else {
				err = terrors.InternalService("panic", fmt.Sprintf("Recovered from panic: %v", r), nil)
			}
		}()
		return next(req)
	})
}
