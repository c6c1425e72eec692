package observable

import (
	"context"
	"sync"
)

// Value holds the latest value of T and pushes every change to subscribers.
// Subscribers are conflated: a slow reader skips intermediate values and only
// sees the newest one.
type Value[T any] struct {
	mu      sync.RWMutex
	current T
	subs    map[*subscriber[T]]struct{}
}

type subscriber[T any] struct {
	ch chan T
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[*subscriber[T]]struct{}),
	}
}

// Get returns the latest value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set replaces the value and notifies subscribers.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = val
	for s := range v.subs {
		offer(s.ch, val)
	}
}

// Subscribe returns a channel that first receives the current value and then
// every later one. The channel closes when ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	s := &subscriber[T]{ch: make(chan T, 1)}

	v.mu.Lock()
	s.ch <- v.current
	v.subs[s] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, s)
		close(s.ch)
		v.mu.Unlock()
	}()
	return s.ch
}

// offer replaces whatever is buffered in ch with val. Callers hold the write
// lock, so ch has no other sender.
func offer[T any](ch chan T, val T) {
	select {
	case <-ch:
	default:
	}
	ch <- val
}
