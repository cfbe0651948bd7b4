package live

import (
	"context"
	"sync"
)

// Value is a mutable state cell whose watchers receive the latest value.
type Value[T any] struct {
	mu       sync.Mutex
	v        T
	watchers map[chan T]struct{}
}

func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v, watchers: make(map[chan T]struct{})}
}

func (s *Value[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

func (s *Value[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
	for ch := range s.watchers {
		Offer(ch, v)
	}
}

// Update applies fn to the current value atomically.
func (s *Value[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = fn(s.v)
	for ch := range s.watchers {
		Offer(ch, s.v)
	}
}

// Watch emits the current value, then every later value until ctx ends.
func (s *Value[T]) Watch(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	ch <- s.v
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}
