package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lessondump"
)

// Ensure LoggingExtractor implements lessondump.ContentExtractor.
var _ lessondump.ContentExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a ContentExtractor with logging of what each
// extraction produced.
type LoggingExtractor struct {
	next   lessondump.ContentExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next lessondump.ContentExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(ctx context.Context, page lessondump.Page) (rec *lessondump.ContentRecord, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if rec != nil {
			attrs = append(attrs,
				"title", rec.Title,
				"type", rec.ExerciseType,
				"language", rec.Language,
				"warnings", len(rec.Warnings()),
			)
		}
		attrs = append(attrs, "err", err)
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.Extract(ctx, page)
}
