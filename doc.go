// Package relay composes request-processing pipelines out of small steps which know nothing of the steps around them.
//
// A Service is built from a stack of steps and compiles to a function from request to reply. A Filter wraps an inner
// continuation, and may change the request and reply types on either side of it; attaching a Filter to a Service with
// Apply yields a new Service.
//
//	svc := relay.Map(relay.Map(relay.NewService[int](), inc), double)
//	svc = svc.Handle(fallback)
//	rsp, err := svc.Call(1)
//
// Evaluation is synchronous and happens entirely on the calling goroutine. Builder values are immutable, and the
// compiled functions keep no state between calls.
package relay
