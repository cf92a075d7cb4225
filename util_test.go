package relay

import (
	"errors"
	"sync"
)

var (
	errBoom  = errors.New("boom")
	errOther = errors.New("other")
)

func add(n int) func(int) (int, error) {
	return func(v int) (int, error) {
		return v + n, nil
	}
}

func mul(n int) func(int) (int, error) {
	return func(v int) (int, error) {
		return v * n, nil
	}
}

func fail(err error) func(int) (int, error) {
	return func(int) (int, error) {
		return 0, err
	}
}

func recoverWith(v int) func(error) (int, error) {
	return func(error) (int, error) {
		return v, nil
	}
}

// recorder collects the order in which steps observe a call.
type recorder struct {
	sync.Mutex
	events []string
}

func (r *recorder) record(ev string) {
	r.Lock()
	defer r.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Events() []string {
	r.Lock()
	defer r.Unlock()
	return append([]string(nil), r.events...)
}

func raiseWith(err error) func(error) (int, error) {
	return func(error) (int, error) {
		return 0, err
	}
}
