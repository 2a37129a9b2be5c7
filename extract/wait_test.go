package extract_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/lessondump/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitUntil(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately when condition already holds", func(t *testing.T) {
		t.Parallel()

		calls := 0
		ok := extract.WaitUntil(context.Background(), time.Second, time.Second, func(context.Context) bool {
			calls++
			return true
		})

		assert.True(t, ok)
		assert.Equal(t, 1, calls)
	})

	t.Run("polls until condition holds", func(t *testing.T) {
		t.Parallel()

		calls := 0
		ok := extract.WaitUntil(context.Background(), time.Second, time.Millisecond, func(context.Context) bool {
			calls++
			return calls == 3
		})

		assert.True(t, ok)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after timeout", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		ok := extract.WaitUntil(context.Background(), 30*time.Millisecond, 5*time.Millisecond, func(context.Context) bool {
			return false
		})

		assert.False(t, ok)
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("checks condition once with zero timeout", func(t *testing.T) {
		t.Parallel()

		calls := 0
		ok := extract.WaitUntil(context.Background(), 0, time.Second, func(context.Context) bool {
			calls++
			return false
		})

		assert.False(t, ok)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		ok := extract.WaitUntil(ctx, time.Minute, time.Second, func(context.Context) bool {
			return false
		})

		assert.False(t, ok)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestSleep(t *testing.T) {
	t.Parallel()

	t.Run("waits for the duration", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		err := extract.Sleep(context.Background(), 20*time.Millisecond)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := extract.Sleep(ctx, time.Minute)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
