package session_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saulo-duarte/aizzler/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ch: make(chan time.Time)}
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

func (f *fakeTicker) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case f.ch <- time.Now():
		case <-time.After(time.Second):
			t.Fatalf("countdown stopped consuming ticks after %d", i)
		}
	}
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel to close")
	}
}

func TestCountdown(t *testing.T) {
	t.Run("RunsToZeroAndExpiresOnce", func(t *testing.T) {
		ticker := newFakeTicker()
		var mu sync.Mutex
		var seen []int
		var expired atomic.Int32

		cd := session.StartCountdown(5, ticker,
			func(remaining int) {
				mu.Lock()
				seen = append(seen, remaining)
				mu.Unlock()
			},
			func() { expired.Add(1) },
		)

		ticker.tick(t, 5)
		waitClosed(t, cd.Done())

		mu.Lock()
		assert.Equal(t, []int{4, 3, 2, 1, 0}, seen)
		mu.Unlock()
		assert.Equal(t, int32(1), expired.Load())
		assert.True(t, ticker.stopped.Load())

		cd.Stop()
		assert.Equal(t, int32(1), expired.Load())
	})

	t.Run("StopIsIdempotentAndPreventsExpiry", func(t *testing.T) {
		ticker := newFakeTicker()
		var expired atomic.Int32

		cd := session.StartCountdown(5, ticker, nil, func() { expired.Add(1) })
		ticker.tick(t, 2)

		cd.Stop()
		cd.Stop()

		waitClosed(t, cd.Done())
		assert.Zero(t, expired.Load())
		assert.True(t, ticker.stopped.Load())
	})

	t.Run("NonPositiveExpiresImmediately", func(t *testing.T) {
		var expired atomic.Int32
		cd := session.StartCountdown(0, newFakeTicker(), nil, func() { expired.Add(1) })

		waitClosed(t, cd.Done())
		assert.Equal(t, int32(1), expired.Load())
		require.NotPanics(t, cd.Stop)
	})
}
