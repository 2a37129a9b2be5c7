// Package rod drives exercise pages in Chrome through go-rod.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/lessondump"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Browser implements lessondump.Browser at compile time.
var _ lessondump.Browser = (*Browser)(nil)

// DefaultReadyTimeout bounds the wait for the exercise viewer to render
// after the load event.
const DefaultReadyTimeout = 10 * time.Second

// Browser opens exercise pages in a managed Chrome instance.
type Browser struct {
	manager   *BrowserManager
	selectors lessondump.Selectors

	// ReadyTimeout bounds the wait for Selectors.Viewer after load. The
	// site renders client-side, so the load event fires before content.
	ReadyTimeout time.Duration
}

// NewBrowser launches or attaches to Chrome according to opts.
// Close must be called when the Browser is no longer needed.
func NewBrowser(selectors lessondump.Selectors, opts ...ManagerOption) (*Browser, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Browser{
		manager:      manager,
		selectors:    selectors,
		ReadyTimeout: DefaultReadyTimeout,
	}, nil
}

// Open navigates a new tab to url and waits until the viewer renders or
// ReadyTimeout passes.
func (b *Browser) Open(ctx context.Context, url string) (lessondump.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := b.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	p := page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		_ = page.Close()
		return nil, err
	}
	if err := p.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, err
	}
	if b.ReadyTimeout > 0 {
		// A page without a viewer is not an exercise; the extractor decides.
		_, _ = p.Timeout(b.ReadyTimeout).Element(b.selectors.Viewer)
	}
	b.manager.IncrementPageCount()

	return &Page{page: page, selectors: b.selectors}, nil
}

// Close releases the browser. An attached browser keeps running.
func (b *Browser) Close() error {
	return b.manager.Close()
}
