package extract

import (
	"context"
	"log/slog"

	"github.com/fwojciec/lessondump"
)

// SolutionState is the outcome of an attempt to reveal the official
// solution.
type SolutionState int

// SolutionState constants.
const (
	// SolutionClosed means the solution is not shown and no reveal was
	// attempted, either because auto-open is off or the page has no
	// reveal control.
	SolutionClosed SolutionState = iota

	// SolutionPending means the reveal control was clicked and no outcome
	// has been observed yet. It is never returned by Open.
	SolutionPending

	// SolutionAlreadyOpen means the solution was shown before any click.
	SolutionAlreadyOpen

	// SolutionDenied means the site answered the click with its anti-cheat
	// gate. The gate was dismissed and nothing was revealed.
	SolutionDenied

	// SolutionOpened means the revealed marker appeared after the click.
	SolutionOpened

	// SolutionOpenedUnconfirmed means the click went through but the
	// revealed marker never appeared.
	SolutionOpenedUnconfirmed
)

func (s SolutionState) String() string {
	switch s {
	case SolutionClosed:
		return "closed"
	case SolutionPending:
		return "pending"
	case SolutionAlreadyOpen:
		return "already-open"
	case SolutionDenied:
		return "denied"
	case SolutionOpened:
		return "opened"
	case SolutionOpenedUnconfirmed:
		return "opened-unconfirmed"
	}
	return "unknown"
}

// Revealed reports whether the solution content can be read.
func (s SolutionState) Revealed() bool {
	return s == SolutionAlreadyOpen || s == SolutionOpened || s == SolutionOpenedUnconfirmed
}

// Opener reveals the official solution of an exercise by clicking its
// reveal control. It never bypasses the site's gate: when the gate appears
// it is dismissed and the attempt ends as SolutionDenied.
type Opener struct {
	Scraper   lessondump.Scraper
	Selectors lessondump.Selectors
	Config    lessondump.ExtractionConfig
	Logger    *slog.Logger
}

// Open attempts to reveal the solution of an exercise of the given type.
func (o *Opener) Open(ctx context.Context, page lessondump.Page, exerciseType lessondump.ExerciseType) SolutionState {
	logger := loggerOrDiscard(o.Logger)

	html, err := page.HTML(ctx)
	if err != nil {
		logger.Debug("solution snapshot failed", "error", err)
		return SolutionClosed
	}
	if o.revealed(ctx, page, html, exerciseType) {
		return SolutionAlreadyOpen
	}
	rc := o.Scraper.RevealControl(html)
	if !rc.Found {
		return SolutionClosed
	}
	if rc.Open {
		return SolutionAlreadyOpen
	}

	if err := page.Click(ctx, o.Selectors.SolutionButton, rc.Index); err != nil {
		logger.Debug("solution click failed", "error", err)
		return SolutionClosed
	}
	state := SolutionPending

	// The gate and the revealed marker race; whichever shows first decides.
	var gate, shown bool
	WaitUntil(ctx, o.Config.GateTimeout, o.Config.PollInterval, func(ctx context.Context) bool {
		html, err := page.HTML(ctx)
		if err != nil {
			return false
		}
		if _, _, ok := o.Scraper.GateDismiss(html); ok {
			gate = true
			return true
		}
		shown = o.revealed(ctx, page, html, exerciseType)
		return shown
	})

	switch {
	case gate:
		o.dismissGate(ctx, page)
		state = SolutionDenied
	case shown:
		state = SolutionOpened
	default:
		state = SolutionOpenedUnconfirmed
		if WaitUntil(ctx, o.Config.RevealTimeout, o.Config.PollInterval, func(ctx context.Context) bool {
			html, err := page.HTML(ctx)
			return err == nil && o.revealed(ctx, page, html, exerciseType)
		}) {
			state = SolutionOpened
		}
	}

	logger.Debug("solution reveal", "state", state.String())
	return state
}

// revealed checks the marker that proves the solution is on screen.
func (o *Opener) revealed(ctx context.Context, page lessondump.Page, html string, exerciseType lessondump.ExerciseType) bool {
	if exerciseType == lessondump.ExerciseInterview {
		_, _, ok := o.Scraper.InterviewSolution(html)
		return ok
	}
	n, err := page.Count(ctx, o.Selectors.MergeView)
	return err == nil && n > 0
}

func (o *Opener) dismissGate(ctx context.Context, page lessondump.Page) {
	html, err := page.HTML(ctx)
	if err != nil {
		return
	}
	selector, index, ok := o.Scraper.GateDismiss(html)
	if !ok || selector == "" {
		return
	}
	if err := page.Click(ctx, selector, index); err != nil {
		loggerOrDiscard(o.Logger).Debug("gate dismiss failed", "error", err)
	}
}
