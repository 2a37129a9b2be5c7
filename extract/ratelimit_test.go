package extract_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements lessondump.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ lessondump.DomainLimiter = extract.NewDomainLimiter(1)
	})

	t.Run("allows immediate first request", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "www.boot.dev")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("paces requests to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "www.boot.dev"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "www.boot.dev")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("hosts have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "www.boot.dev"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "api.notion.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "www.boot.dev"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "www.boot.dev"))
	})

	t.Run("concurrent waits all complete", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Wait(context.Background(), "www.boot.dev") == nil {
					completed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), completed.Load())
	})
}

func TestHost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "www.boot.dev", extract.Host("https://www.boot.dev/lessons/1"))
	assert.Equal(t, "boot.dev", extract.Host("https://boot.dev:443/lessons/1"))
	assert.Equal(t, "not a url", extract.Host("not a url"))
}
