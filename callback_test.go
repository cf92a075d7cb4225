package relay

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/monzo/terrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errZeroFactor = errors.New("factor must be non-zero")

// scaler multiplies requests by the factor it was initialised with.
type scaler struct {
	inits *int32
}

func (s scaler) Init(factor int) (int, error) {
	atomic.AddInt32(s.inits, 1)
	if factor == 0 {
		return 0, errZeroFactor
	}
	return factor, nil
}

func (s scaler) Call(req int, factor int) (int, error) {
	return req * factor, nil
}

// offset shifts requests up on the way in, and replies back down on the way out.
type offset struct {
	inits *int32
}

func (o offset) Init(n int) (int, error) {
	atomic.AddInt32(o.inits, 1)
	return n, nil
}

func (o offset) Call(req int, next func(int) (int, error), n int) (int, error) {
	rsp, err := next(req + n)
	return rsp - n, err
}

func TestServiceCallback(t *testing.T) {
	t.Parallel()

	var inits int32
	svc, err := ServiceCallback[int, int, int, int](scaler{&inits}, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inits), "Init must run eagerly, once")

	f := svc.Init()
	for _, req := range []int{0, 1, 2, 5} {
		rsp, err := f(req)
		require.NoError(t, err)
		assert.Equal(t, req*3, rsp)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&inits), "Init must not run per call")

	// Callback steps compose like any other
	svc, err = MapCallback[int, int, int, int, int](Map(NewService[int](), add(1)), scaler{&inits}, 10)
	require.NoError(t, err)
	rsp, err := svc.Call(2)
	require.NoError(t, err)
	assert.Equal(t, 30, rsp)
}

func TestServiceCallbackInitFailure(t *testing.T) {
	t.Parallel()

	var inits int32
	_, err := ServiceCallback[int, int, int, int](scaler{&inits}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errZeroFactor))
	assert.True(t, terrors.PrefixMatches(err, terrors.ErrInternalService))
}

func TestFilterCallback(t *testing.T) {
	t.Parallel()

	var inits int32
	f, err := FilterCallback[int, int, int, int, int, int](offset{&inits}, 100)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inits))

	// 1 → 101 → 202 → 102
	rsp, err := f.CallService(1, ServiceFunc(mul(2)))
	require.NoError(t, err)
	assert.Equal(t, 102, rsp)

	svc := f.Apply(ServiceFunc(mul(2)))
	rsp, err = svc.Call(1)
	require.NoError(t, err)
	assert.Equal(t, 102, rsp)

	// Callback wrappers nest like any other step
	f2, err := WrapCallback[int, int, int, int, int, int, int, int](FilterFunc(halve), offset{&inits}, 1)
	require.NoError(t, err)
	rsp, err = f2.Call(1, NewService[int]().Init()) // halve: 2, offset: 3 → 2, halve: 1
	require.NoError(t, err)
	assert.Equal(t, 1, rsp)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inits))
}
