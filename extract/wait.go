// Package extract orchestrates content extraction from a live exercise page.
// It drives the page through lessondump.Page and delegates every static read
// to a snapshot Scraper, so each step can be exercised against a fake page.
package extract

import (
	"context"
	"time"
)

// WaitUntil polls cond every interval until it returns true, the timeout
// elapses, or ctx is done. cond is checked once before the first sleep.
// It reports whether cond was satisfied; a timeout is not an error.
func WaitUntil(ctx context.Context, timeout, interval time.Duration, cond func(ctx context.Context) bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond(ctx) {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		if err := Sleep(ctx, min(interval, time.Until(deadline))); err != nil {
			return false
		}
	}
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
