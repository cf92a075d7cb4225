package relay

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/monzo/slog"
)

// LoggingFilter logs every call through it via the default slog logger: failures at warning level, successes at
// debug level. Each call is tagged with a fresh call_id so its log lines can be correlated.
//
// If requests implement context.Context they are used as the log context.
func LoggingFilter[Req, Rsp any](name string) Filter[Req, Rsp, Req, Rsp] {
	return FilterFunc(func(req Req, next func(Req) (Rsp, error)) (Rsp, error) {
		ctx := contextOf(req)
		meta := map[string]string{
			"filter":  name,
			"call_id": uuid.New().String()}

		start := time.Now()
		rsp, err := next(req)
		meta["duration"] = time.Since(start).String()

		if err != nil {
			// Passing the error through as a parameter merges any terror params into the metadata
			slog.Warn(ctx, "%s failed: %v", name, err, meta)
		} else {
			slog.Debug(ctx, "%s succeeded", name, meta)
		}
		return rsp, err
	})
}

func contextOf(req any) context.Context {
	if ctx, ok := req.(context.Context); ok && ctx != nil {
		return ctx
	}
	return context.Background()
}
