// Package chromedp drives exercise pages in Chrome through chromedp. It is
// the alternate driver to package rod and evaluates the same page scripts.
package chromedp

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/fwojciec/lessondump"
)

// Ensure Browser implements lessondump.Browser at compile time.
var _ lessondump.Browser = (*Browser)(nil)

// DefaultReadyTimeout bounds the wait for the exercise viewer to render.
const DefaultReadyTimeout = 10 * time.Second

// Browser opens each page in a new tab of one Chrome instance.
type Browser struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	selectors     lessondump.Selectors

	// ReadyTimeout bounds the wait for Selectors.Viewer after navigation.
	ReadyTimeout time.Duration
}

// Options configures NewBrowser.
type Options struct {
	// ControlURL attaches to a running browser (a DevTools websocket or
	// http endpoint) instead of launching one.
	ControlURL string

	// Headless hides the window of a launched browser.
	Headless bool
}

// NewBrowser launches Chrome, or attaches to the one behind
// opts.ControlURL. Close must be called when the Browser is no longer
// needed.
func NewBrowser(selectors lessondump.Selectors, opts Options) (*Browser, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if opts.ControlURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.ControlURL)
	} else {
		flags := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-background-timer-throttling", true),
			chromedp.Flag("disable-renderer-backgrounding", true),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), flags...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Browser{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		selectors:     selectors,
		ReadyTimeout:  DefaultReadyTimeout,
	}, nil
}

// Open navigates a new tab to url and waits until the viewer renders or
// ReadyTimeout passes.
func (b *Browser) Open(ctx context.Context, url string) (lessondump.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	page := &Page{ctx: tabCtx, cancel: cancel, selectors: b.selectors}

	// The first Run allocates the tab and binds it to the context it gets,
	// so it must not see a cancelable per-call context.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	if err := page.run(ctx, chromedp.Navigate(url)); err != nil {
		cancel()
		return nil, err
	}
	if b.ReadyTimeout > 0 {
		waitCtx, stop := context.WithTimeout(ctx, b.ReadyTimeout)
		// A page without a viewer is not an exercise; the extractor decides.
		_ = page.run(waitCtx, chromedp.WaitReady(b.selectors.Viewer, chromedp.ByQuery))
		stop()
	}
	return page, nil
}

// Close shuts the browser down. For an attached browser only the
// connection is dropped.
func (b *Browser) Close() error {
	b.browserCancel()
	b.allocCancel()
	return nil
}
