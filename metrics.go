package relay

import (
	"time"

	"github.com/monzo/terrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors InstrumentFilter records into.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers call metrics under namespace with reg. As with promauto, registering the same namespace twice
// with one registry panics.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if reg == nil {
		return nil, terrors.BadRequest("nil_registry", "Metrics registry cannot be nil", nil)
	}

	factory := promauto.With(reg)
	return &Metrics{
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of calls through an instrumented filter",
			},
			[]string{"name", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "call_duration_seconds",
				Help:      "Duration of calls through an instrumented filter in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"name"},
		)}, nil
}

// InstrumentFilter counts the calls through it by outcome, and observes their duration.
func InstrumentFilter[Req, Rsp any](m *Metrics, name string) Filter[Req, Rsp, Req, Rsp] {
	return FilterFunc(func(req Req, next func(Req) (Rsp, error)) (Rsp, error) {
		start := time.Now()
		rsp, err := next(req)
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		m.calls.WithLabelValues(name, outcome).Inc()
		m.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		return rsp, err
	})
}
