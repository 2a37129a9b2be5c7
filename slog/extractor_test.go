package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/mock"
	ldslog "github.com/fwojciec/lessondump/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs record summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		rec := lessondump.NewContentRecord()
		rec.Title = "Hello"
		rec.Language = "python"
		rec.Interview = &lessondump.Interview{}
		rec.ExerciseType = lessondump.ExerciseInterview
		inner := &mock.ContentExtractor{
			ExtractFn: func(ctx context.Context, page lessondump.Page) (*lessondump.ContentRecord, error) {
				return rec, nil
			},
		}

		extractor := ldslog.NewLoggingExtractor(inner, logger)
		got, err := extractor.Extract(context.Background(), &mock.Page{})

		require.NoError(t, err)
		assert.Same(t, rec, got)
		output := buf.String()
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, "title=Hello")
		assert.Contains(t, output, "type=interview")
		assert.Contains(t, output, "language=python")
		assert.Contains(t, output, "warnings=")
	})

	t.Run("logs error for a page that is not an exercise", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ContentExtractor{
			ExtractFn: func(ctx context.Context, page lessondump.Page) (*lessondump.ContentRecord, error) {
				return nil, lessondump.Errorf(lessondump.ENOTFOUND, "not an exercise page")
			},
		}

		extractor := ldslog.NewLoggingExtractor(inner, logger)
		_, err := extractor.Extract(context.Background(), &mock.Page{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "err=\"not an exercise page\"")
		assert.NotContains(t, output, "title=")
	})
}
