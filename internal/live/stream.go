package live

import (
	"context"

	"github.com/google/go-cmp/cmp"
)

// Distinct forwards values from in, dropping any value equal to the one
// forwarded before it.
func Distinct[T any](ctx context.Context, in <-chan T) <-chan T {
	out := make(chan T, 1)
	go func() {
		defer close(out)
		var last T
		sent := false
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				if sent && cmp.Equal(last, v) {
					continue
				}
				last, sent = v, true
				Offer(out, v)
			}
		}
	}()
	return out
}

// Switch subscribes to fn(ctx, v) for every value v received from in and
// forwards its output. A new input cancels the previous subscription, so
// only results for the latest input are delivered.
func Switch[In, Out any](ctx context.Context, in <-chan In, fn func(context.Context, In) <-chan Out) <-chan Out {
	out := make(chan Out, 1)
	go func() {
		defer close(out)
		cancel := func() {}
		defer func() { cancel() }()

		var src <-chan Out
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				cancel()
				var inner context.Context
				inner, cancel = context.WithCancel(ctx)
				src = fn(inner, v)
			case v, ok := <-src:
				if !ok {
					src = nil
					continue
				}
				Offer(out, v)
			}
		}
	}()
	return out
}
