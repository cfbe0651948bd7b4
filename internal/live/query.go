package live

import (
	"context"

	"go.uber.org/zap"
)

// FetchFunc reads the current result of a query.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Query is a read that can be re-run whenever the tables it depends on change.
type Query[T any] struct {
	tracker *Tracker
	tables  []string
	fetch   FetchFunc[T]
}

func NewQuery[T any](tracker *Tracker, fetch FetchFunc[T], tables ...string) *Query[T] {
	return &Query[T]{tracker: tracker, tables: tables, fetch: fetch}
}

// Get runs the query once.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	return q.fetch(ctx)
}

// Subscribe emits the current result and then the latest result after every
// invalidation of an observed table. The channel is closed when ctx ends.
// Failed fetches are logged and skipped.
func (q *Query[T]) Subscribe(ctx context.Context) <-chan T {
	out := make(chan T, 1)
	signal, stop := q.tracker.Observe(q.tables...)

	go func() {
		defer close(out)
		defer stop()
		for {
			v, err := q.fetch(ctx)
			switch {
			case err == nil:
				Offer(out, v)
			case ctx.Err() != nil:
				return
			default:
				q.tracker.log.Warn("live query failed", zap.Strings("tables", q.tables), zap.Error(err))
			}

			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	}()
	return out
}

// Offer puts v on ch, replacing a value the consumer has not taken yet.
// ch must have a buffer and a single sender.
func Offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
