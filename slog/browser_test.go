package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/mock"
	ldslog "github.com/fwojciec/lessondump/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBrowser_Open(t *testing.T) {
	t.Parallel()

	t.Run("logs url and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		page := &mock.Page{}
		inner := &mock.Browser{
			OpenFn: func(ctx context.Context, url string) (lessondump.Page, error) {
				return page, nil
			},
		}

		browser := ldslog.NewLoggingBrowser(inner, logger)
		got, err := browser.Open(context.Background(), "https://www.boot.dev/lessons/abc")

		require.NoError(t, err)
		assert.Same(t, page, got)
		output := buf.String()
		assert.Contains(t, output, "open page")
		assert.Contains(t, output, "url=https://www.boot.dev/lessons/abc")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Browser{
			OpenFn: func(ctx context.Context, url string) (lessondump.Page, error) {
				return nil, errors.New("navigation failed")
			},
		}

		browser := ldslog.NewLoggingBrowser(inner, logger)
		_, err := browser.Open(context.Background(), "https://www.boot.dev/lessons/abc")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"navigation failed\"")
	})
}

func TestLoggingBrowser_Close(t *testing.T) {
	t.Parallel()

	closeCalled := false
	inner := &mock.Browser{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	browser := ldslog.NewLoggingBrowser(inner, slog.New(slog.DiscardHandler))
	require.NoError(t, browser.Close())
	assert.True(t, closeCalled)
}
