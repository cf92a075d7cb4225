package relay

import (
	"testing"

	"github.com/monzo/terrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimitFilter(t *testing.T) {
	t.Parallel()

	calls := 0
	svc := RateLimitFilter[int, int](rate.NewLimiter(0, 2)).Apply(ServiceFunc(func(n int) (int, error) {
		calls++
		return n, nil
	}))

	// The burst is allowed through; the limiter never refills
	for i := 0; i < 2; i++ {
		rsp, err := svc.Call(i)
		require.NoError(t, err)
		assert.Equal(t, i, rsp)
	}

	_, err := svc.Call(3)
	require.Error(t, err)
	assert.True(t, terrors.PrefixMatches(err, ErrRateLimited))
	assert.Equal(t, "0", terrors.Wrap(err, nil).(*terrors.Error).Params["limit"])
	assert.Equal(t, 2, calls, "rejected requests must not reach the service")
}

func TestNewRateLimiter(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(60)
	assert.Equal(t, 60, l.Burst())
	assert.InDelta(t, 1.0, float64(l.Limit()), 1e-9)
}

func TestNewRateLimiterNonPositive(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -5} {
		l := NewRateLimiter(n)
		assert.Equal(t, 0, l.Burst())
		assert.False(t, l.Allow(), "rate %d", n)

		_, err := RateLimitFilter[int, int](l).Call(1, add(1))
		assert.True(t, terrors.PrefixMatches(err, ErrRateLimited), "rate %d", n)
	}
}
