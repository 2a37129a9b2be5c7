package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lessondump"
)

// Ensure LoggingNoteClient implements lessondump.NoteClient.
var _ lessondump.NoteClient = (*LoggingNoteClient)(nil)

// LoggingNoteClient wraps a NoteClient with logging.
type LoggingNoteClient struct {
	next   lessondump.NoteClient
	logger *slog.Logger
}

// NewLoggingNoteClient creates a new LoggingNoteClient.
func NewLoggingNoteClient(next lessondump.NoteClient, logger *slog.Logger) *LoggingNoteClient {
	return &LoggingNoteClient{next: next, logger: logger}
}

// Send delegates to the wrapped client and logs the operation.
func (c *LoggingNoteClient) Send(ctx context.Context, rec *lessondump.ContentRecord, destination string) (pageURL string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("send note",
			"title", rec.Title,
			"destination", destination,
			"page", pageURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Send(ctx, rec, destination)
}
