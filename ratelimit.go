package relay

import (
	"strconv"
	"time"

	"github.com/monzo/terrors"
	"golang.org/x/time/rate"
)

// ErrRateLimited is the terror code of requests rejected by RateLimitFilter.
const ErrRateLimited = "rate_limited"

// NewRateLimiter returns a limiter allowing requestsPerMinute calls per minute, with bursts of the same size. A
// non-positive rate yields a limiter which rejects everything.
func NewRateLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(0, 0)
	}
	return rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(requestsPerMinute)),
		requestsPerMinute)
}

// RateLimitFilter rejects requests once limiter is exhausted, without calling its continuation. It never waits for
// the limiter to refill.
func RateLimitFilter[Req, Rsp any](limiter *rate.Limiter) Filter[Req, Rsp, Req, Rsp] {
	return FilterFunc(func(req Req, next func(Req) (Rsp, error)) (Rsp, error) {
		if !limiter.Allow() {
			var rsp Rsp
			return rsp, terrors.New(ErrRateLimited, "Rate limit exceeded", map[string]string{
				"limit": strconv.FormatFloat(float64(limiter.Limit()), 'f', -1, 64),
				"burst": strconv.Itoa(limiter.Burst())})
		}
		return next(req)
	})
}
