package relay

import (
	"context"

	"github.com/monzo/terrors"
)

// ExpirationFilter provides admission control; it rejects requests which are cancelled. A nil request carries no
// deadline and is let through.
func ExpirationFilter[Req context.Context, Rsp any]() Filter[Req, Rsp, Req, Rsp] {
	return FilterFunc(func(req Req, next func(Req) (Rsp, error)) (Rsp, error) {
		if any(req) == nil {
			return next(req)
		}
		select {
		case <-req.Done():
			var rsp Rsp
			return rsp, terrors.BadRequest("expired", "Request has expired", nil)
		default:
			return next(req)
		}
	})
}
