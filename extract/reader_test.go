package extract_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/extract"
	"github.com/fwojciec/lessondump/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// virtualEditor mounts only the lines near its viewport, like a virtualized
// code editor does.
type virtualEditor struct {
	mu sync.Mutex

	lines        []string
	lineHeight   int
	clientHeight int
	overscan     int

	// reportedHeight overrides the scroll height reported by Metrics.
	reportedHeight int

	// stateReachable makes the internal editor state readable.
	stateReachable bool

	// jitter shifts reported tops across a rounding boundary on every
	// other read, as sub-pixel layouts do.
	jitter bool
	reads  int

	scrollTop int
	scrolls   []int
}

func newVirtualEditor(n int) *virtualEditor {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %03d", i+1)
	}
	return &virtualEditor{lines: lines, lineHeight: 20, clientHeight: 400, overscan: 100}
}

func (e *virtualEditor) text() string { return strings.Join(e.lines, "\n") }

func (e *virtualEditor) DocumentText(_ context.Context, _ int) (string, bool, error) {
	if !e.stateReachable {
		return "", false, nil
	}
	return e.text(), true, nil
}

func (e *virtualEditor) Metrics(_ context.Context) (lessondump.ScrollMetrics, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	height := len(e.lines) * e.lineHeight
	if e.reportedHeight > 0 {
		height = e.reportedHeight
	}
	return lessondump.ScrollMetrics{ScrollTop: e.scrollTop, ScrollHeight: height, ClientHeight: e.clientHeight}, nil
}

func (e *virtualEditor) ScrollTo(_ context.Context, top int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrolls = append(e.scrolls, top)
	e.scrollTop = max(0, min(top, len(e.lines)*e.lineHeight-e.clientHeight))
	return nil
}

func (e *virtualEditor) RenderedLines(_ context.Context) ([]lessondump.RenderedLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reads++
	shift := 0.0
	if e.jitter {
		shift = -0.4
		if e.reads%2 == 0 {
			shift = 0.5
		}
	}
	var rendered []lessondump.RenderedLine
	for i, text := range e.lines {
		top := i * e.lineHeight
		if top+e.lineHeight > e.scrollTop-e.overscan && top < e.scrollTop+e.clientHeight+e.overscan {
			rendered = append(rendered, lessondump.RenderedLine{Text: text, Top: float64(top) + shift})
		}
	}
	return rendered, nil
}

func fastConfig() lessondump.ExtractionConfig {
	cfg := lessondump.DefaultExtractionConfig()
	cfg.SettleAfterAppear = 0
	cfg.StepWait = 0
	cfg.WiggleDelay = 0
	cfg.EditorAppearTimeout = 20 * time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.TabSwitchDelay = 0
	cfg.GateTimeout = 20 * time.Millisecond
	cfg.RevealTimeout = 20 * time.Millisecond
	cfg.ChatLoadTimeout = 20 * time.Millisecond
	return cfg
}

func TestScrollStrategy_Read(t *testing.T) {
	t.Parallel()

	t.Run("captures every line of a virtualized editor", func(t *testing.T) {
		t.Parallel()

		editor := newVirtualEditor(300)
		s := &extract.ScrollStrategy{Config: fastConfig()}

		text, ok := s.Read(context.Background(), editor)

		require.True(t, ok)
		assert.Equal(t, editor.text(), text)
	})

	t.Run("merges lines whose sub-pixel tops round differently", func(t *testing.T) {
		t.Parallel()

		editor := newVirtualEditor(150)
		editor.jitter = true
		s := &extract.ScrollStrategy{Config: fastConfig()}

		text, ok := s.Read(context.Background(), editor)

		require.True(t, ok)
		assert.Equal(t, editor.text(), text)
	})

	t.Run("captures a short editor past its reported height", func(t *testing.T) {
		t.Parallel()

		editor := newVirtualEditor(200)
		editor.reportedHeight = editor.clientHeight
		s := &extract.ScrollStrategy{Config: fastConfig()}

		text, ok := s.Read(context.Background(), editor)

		require.True(t, ok)
		assert.Equal(t, editor.text(), text)
	})

	t.Run("restores scroll position to top", func(t *testing.T) {
		t.Parallel()

		editor := newVirtualEditor(120)
		s := &extract.ScrollStrategy{Config: fastConfig()}

		_, _ = s.Read(context.Background(), editor)

		require.NotEmpty(t, editor.scrolls)
		assert.Equal(t, 0, editor.scrolls[len(editor.scrolls)-1])
	})

	t.Run("stops stepping once no new lines appear", func(t *testing.T) {
		t.Parallel()

		editor := newVirtualEditor(5)
		s := &extract.ScrollStrategy{Config: fastConfig()}

		text, ok := s.Read(context.Background(), editor)

		require.True(t, ok)
		assert.Equal(t, editor.text(), text)
		// Stepping the whole forced overshoot would take over 20 scrolls.
		assert.Less(t, len(editor.scrolls), 15)
	})

	t.Run("returns partial capture instead of failing", func(t *testing.T) {
		t.Parallel()

		editor := &mock.Editor{
			MetricsFn: func(context.Context) (lessondump.ScrollMetrics, error) {
				return lessondump.ScrollMetrics{}, errors.New("detached")
			},
			ScrollToFn: func(context.Context, int) error { return errors.New("detached") },
			RenderedLinesFn: func(context.Context) ([]lessondump.RenderedLine, error) {
				return nil, errors.New("detached")
			},
		}
		s := &extract.ScrollStrategy{Config: fastConfig()}

		text, ok := s.Read(context.Background(), editor)

		assert.True(t, ok)
		assert.Empty(t, text)
	})
}

func TestReader_Read(t *testing.T) {
	t.Parallel()

	t.Run("prefers editor state over scrolling", func(t *testing.T) {
		t.Parallel()

		editor := newVirtualEditor(300)
		editor.stateReachable = true
		r := &extract.Reader{Strategies: extract.DefaultStrategies(fastConfig())}

		text := r.Read(context.Background(), editor)

		assert.Equal(t, editor.text(), text)
		assert.Empty(t, editor.scrolls)
	})

	t.Run("falls back to scrolling when state is unreachable", func(t *testing.T) {
		t.Parallel()

		editor := newVirtualEditor(80)
		r := &extract.Reader{Strategies: extract.DefaultStrategies(fastConfig())}

		text := r.Read(context.Background(), editor)

		assert.Equal(t, editor.text(), text)
		assert.NotEmpty(t, editor.scrolls)
	})

	t.Run("falls back when state read errors", func(t *testing.T) {
		t.Parallel()

		editor := &mock.Editor{
			DocumentTextFn: func(context.Context, int) (string, bool, error) {
				return "", false, errors.New("evaluate failed")
			},
		}
		fallback := &stubStrategy{text: "fallback", ok: true}
		r := &extract.Reader{Strategies: []extract.EditorStrategy{&extract.StateStrategy{MaxDepth: 10}, fallback}}

		text := r.Read(context.Background(), editor)

		assert.Equal(t, "fallback", text)
	})

	t.Run("passes max depth to the state read", func(t *testing.T) {
		t.Parallel()

		var depth int
		editor := &mock.Editor{
			DocumentTextFn: func(_ context.Context, maxDepth int) (string, bool, error) {
				depth = maxDepth
				return "x", true, nil
			},
		}
		r := &extract.Reader{Strategies: extract.DefaultStrategies(fastConfig())}

		_ = r.Read(context.Background(), editor)

		assert.Equal(t, 10, depth)
	})

	t.Run("returns empty string when no strategy applies", func(t *testing.T) {
		t.Parallel()

		r := &extract.Reader{Strategies: []extract.EditorStrategy{&stubStrategy{}}}

		assert.Empty(t, r.Read(context.Background(), &mock.Editor{}))
	})
}

type stubStrategy struct {
	text string
	ok   bool
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Read(context.Context, lessondump.Editor) (string, bool) {
	return s.text, s.ok
}
