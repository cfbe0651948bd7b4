// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dailymate/internal/repository"
)

// Timeout bounds every wait on a live channel.
const Timeout = 3 * time.Second

// OpenDB opens a migrated database file in a temporary directory.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "dailymate.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Recv returns the next value from ch or fails the test after Timeout.
func Recv[T any](t testing.TB, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed")
		}
		return v
	case <-time.After(Timeout):
		t.Fatalf("no value within %s", Timeout)
	}
	var zero T
	return zero
}

// WaitFor receives from ch until a value satisfies ok.
func WaitFor[T any](t testing.TB, ch <-chan T, ok func(T) bool) T {
	t.Helper()
	deadline := time.After(Timeout)
	for {
		select {
		case v, open := <-ch:
			if !open {
				t.Fatalf("channel closed before condition was met")
			}
			if ok(v) {
				return v
			}
		case <-deadline:
			t.Fatalf("condition not met within %s", Timeout)
		}
	}
}

// NoValue fails the test if ch delivers a value within d.
func NoValue[T any](t testing.TB, ch <-chan T, d time.Duration) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %v", v)
	case <-time.After(d):
	}
}

func Ptr[T any](v T) *T {
	return &v
}
