package relay

import (
	"testing"

	"github.com/monzo/terrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentFilter(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(prometheus.NewRegistry(), "relay_test")
	require.NoError(t, err)

	svc := InstrumentFilter[int, int](m, "adder").Apply(Map(NewService[int](), func(n int) (int, error) {
		if n < 0 {
			return 0, errBoom
		}
		return n + 1, nil
	}))

	for _, req := range []int{1, 2, -1} {
		svc.Call(req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calls.WithLabelValues("adder", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("adder", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNewMetricsRequiresRegistry(t *testing.T) {
	t.Parallel()

	_, err := NewMetrics(nil, "relay_test")
	require.Error(t, err)
	assert.True(t, terrors.PrefixMatches(err, terrors.ErrBadRequest, "nil_registry"))
}
