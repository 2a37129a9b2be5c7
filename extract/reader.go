package extract

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/fwojciec/lessondump"
)

// EditorStrategy is one way of reading the full text of an editor.
type EditorStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Read returns the editor's text. ok is false when the strategy does not
	// apply to this editor and the next one should be tried.
	Read(ctx context.Context, editor lessondump.Editor) (text string, ok bool)
}

// DefaultStrategies returns the direct-state strategy followed by the
// forced-scroll fallback.
func DefaultStrategies(cfg lessondump.ExtractionConfig) []EditorStrategy {
	return []EditorStrategy{
		&StateStrategy{MaxDepth: cfg.MaxDOMDepth},
		&ScrollStrategy{Config: cfg},
	}
}

// Reader reads editors through an ordered chain of strategies. The first
// strategy that applies wins.
type Reader struct {
	Strategies []EditorStrategy
	Logger     *slog.Logger
}

// Read returns the full text of editor, or an empty string when no strategy
// applies.
func (r *Reader) Read(ctx context.Context, editor lessondump.Editor) string {
	logger := loggerOrDiscard(r.Logger)
	for _, s := range r.Strategies {
		text, ok := s.Read(ctx, editor)
		if !ok {
			logger.Debug("editor strategy not applicable", "strategy", s.Name())
			continue
		}
		logger.Debug("editor read", "strategy", s.Name(), "lines", strings.Count(text, "\n")+1, "chars", len(text))
		return text
	}
	return ""
}

// StateStrategy reads the document held by the editor's internal state.
// It needs no scrolling and is exact.
type StateStrategy struct {
	MaxDepth int
}

// Name implements EditorStrategy.
func (s *StateStrategy) Name() string { return "state" }

// Read implements EditorStrategy.
func (s *StateStrategy) Read(ctx context.Context, editor lessondump.Editor) (string, bool) {
	text, ok, err := editor.DocumentText(ctx, s.MaxDepth)
	if err != nil || !ok {
		return "", false
	}
	return text, true
}

// ScrollStrategy scrolls a virtualized editor from top to bottom and stitches
// together the lines rendered along the way. Lines are keyed by their offset
// from the top of the document, so lines the editor unmounts while scrolling
// are kept.
//
// It is a heuristic: an editor that under-reports its height or renders
// lazily beyond the configured overshoot can still be captured partially.
// It always applies and never fails; a partial capture is returned as is.
type ScrollStrategy struct {
	Config lessondump.ExtractionConfig
}

// Name implements EditorStrategy.
func (s *ScrollStrategy) Name() string { return "scroll" }

// Read implements EditorStrategy.
func (s *ScrollStrategy) Read(ctx context.Context, editor lessondump.Editor) (string, bool) {
	cfg := s.Config
	captured := make(map[int64]string)

	capture := func() {
		lines, err := editor.RenderedLines(ctx)
		if err != nil {
			return
		}
		for _, l := range lines {
			// Sub-pixel tops may round either way between steps. Lines are
			// far taller than a pixel, so a neighbor 1px off is this line.
			top := int64(math.Round(l.Top))
			for _, near := range []int64{top - 1, top + 1} {
				if _, ok := captured[near]; ok {
					top = near
					break
				}
			}
			captured[top] = l.Text
		}
	}

	_ = editor.ScrollTo(ctx, 0)
	defer func() { _ = editor.ScrollTo(context.WithoutCancel(ctx), 0) }()
	if Sleep(ctx, cfg.SettleAfterAppear) != nil {
		return joinByOffset(captured), true
	}

	WaitUntil(ctx, cfg.EditorAppearTimeout, cfg.PollInterval, func(ctx context.Context) bool {
		m, err := editor.Metrics(ctx)
		return err == nil && m.ClientHeight > 2
	})

	var maxScroll int
	if m, err := editor.Metrics(ctx); err == nil {
		maxScroll = max(m.ScrollHeight-m.ClientHeight, 0)
	}
	maxScroll = max(maxScroll, cfg.ForcedOvershoot)

	step := max(cfg.StepPx, 1)
	prev, stable := -1, 0
	for y := 0; y <= maxScroll; y += step {
		_ = editor.ScrollTo(ctx, min(y, maxScroll))
		if Sleep(ctx, cfg.StepWait) != nil {
			return joinByOffset(captured), true
		}
		capture()

		if len(captured) != prev {
			prev, stable = len(captured), 0
			continue
		}
		stable++
		if stable >= cfg.StableSteps {
			break
		}
	}

	_ = editor.ScrollTo(ctx, maxScroll)
	for i := 0; i < cfg.WiggleCount; i++ {
		_ = editor.ScrollTo(ctx, max(0, maxScroll-50*(i+1)))
		if Sleep(ctx, cfg.WiggleDelay) != nil {
			break
		}
		capture()
		_ = editor.ScrollTo(ctx, maxScroll)
		if Sleep(ctx, cfg.WiggleDelay) != nil {
			break
		}
		capture()
	}
	capture()

	return joinByOffset(captured), true
}

// joinByOffset orders captured lines top to bottom and joins them.
func joinByOffset(captured map[int64]string) string {
	offsets := make([]int64, 0, len(captured))
	for top := range captured {
		offsets = append(offsets, top)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	lines := make([]string, len(offsets))
	for i, top := range offsets {
		lines[i] = captured[top]
	}
	return strings.Join(lines, "\n")
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
