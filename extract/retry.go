package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lessondump"
)

// DefaultRetryDelays returns the backoff delays for page opens: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// OpenWithRetry opens url in browser, retrying with the given delays between
// attempts. Pages that opened are never retried; only navigation failures
// are. Returns the last error once the attempts are exhausted.
func OpenWithRetry(ctx context.Context, browser lessondump.Browser, url string, delays []time.Duration, logger *slog.Logger) (lessondump.Page, error) {
	logger = loggerOrDiscard(logger)
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := browser.Open(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		logger.Info("retrying page open", "url", url, "attempt", attempt+2, "error", err)

		if err := Sleep(ctx, delays[attempt]); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}
