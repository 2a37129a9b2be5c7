// Package slog provides logging decorators for lessondump services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lessondump"
)

// Ensure LoggingBrowser implements lessondump.Browser.
var _ lessondump.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with page-open logging.
type LoggingBrowser struct {
	next   lessondump.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next lessondump.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Open delegates to the wrapped browser and logs the operation.
func (b *LoggingBrowser) Open(ctx context.Context, url string) (page lessondump.Page, err error) {
	defer func(begin time.Time) {
		b.logger.Info("open page",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Open(ctx, url)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}
