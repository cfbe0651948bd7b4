package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestQuerySubscribe(t *testing.T) {
	tracker := NewTracker(nil)
	var counter atomic.Int64
	q := NewQuery(tracker, func(context.Context) (int64, error) {
		return counter.Load(), nil
	}, "tasks")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := q.Subscribe(ctx)

	assert.Equal(t, int64(0), recv(t, ch))

	counter.Store(7)
	tracker.Invalidate("tasks")
	assert.Equal(t, int64(7), recv(t, ch))

	counter.Store(9)
	tracker.Invalidate("categories")
	select {
	case v := <-ch:
		t.Fatalf("unexpected emission %d", v)
	case <-time.After(50 * time.Millisecond):
	}

	got, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got)
}

func TestQuerySubscribeKeepsLatest(t *testing.T) {
	tracker := NewTracker(nil)
	var counter atomic.Int64
	q := NewQuery(tracker, func(context.Context) (int64, error) {
		return counter.Load(), nil
	}, "tasks")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := q.Subscribe(ctx)
	require.Equal(t, int64(0), recv(t, ch))

	for i := int64(1); i <= 10; i++ {
		counter.Store(i)
		tracker.Invalidate("tasks")
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case v := <-ch:
			if v == 10 {
				return
			}
		case <-deadline:
			t.Fatal("latest value never arrived")
		}
	}
}

func TestQuerySubscribeSurvivesErrors(t *testing.T) {
	tracker := NewTracker(nil)
	var fail atomic.Bool
	fail.Store(true)
	q := NewQuery(tracker, func(context.Context) (string, error) {
		if fail.Load() {
			return "", errors.New("boom")
		}
		return "ok", nil
	}, "tasks")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := q.Subscribe(ctx)

	fail.Store(false)
	tracker.Invalidate("tasks")
	assert.Equal(t, "ok", recv(t, ch))
}

func TestQuerySubscribeClosesOnCancel(t *testing.T) {
	tracker := NewTracker(nil)
	q := NewQuery(tracker, func(context.Context) (int, error) { return 1, nil }, "tasks")

	ctx, cancel := context.WithCancel(context.Background())
	ch := q.Subscribe(ctx)
	recv(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	assert.Empty(t, tracker.observers)
}

func TestOffer(t *testing.T) {
	ch := make(chan int, 1)
	Offer(ch, 1)
	Offer(ch, 2)
	Offer(ch, 3)
	assert.Equal(t, 3, <-ch)
	assert.Len(t, ch, 0)
}
