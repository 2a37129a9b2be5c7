package mock

import (
	"context"

	"github.com/fwojciec/lessondump"
)

// Compile-time interface verification.
var (
	_ lessondump.Browser = (*Browser)(nil)
	_ lessondump.Page    = (*Page)(nil)
	_ lessondump.Editor  = (*Editor)(nil)
)

// Browser is a mock implementation of lessondump.Browser.
type Browser struct {
	OpenFn  func(ctx context.Context, url string) (lessondump.Page, error)
	CloseFn func() error
}

func (b *Browser) Open(ctx context.Context, url string) (lessondump.Page, error) {
	return b.OpenFn(ctx, url)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// Page is a mock implementation of lessondump.Page.
type Page struct {
	URLFn     func(ctx context.Context) (string, error)
	TitleFn   func(ctx context.Context) (string, error)
	HTMLFn    func(ctx context.Context) (string, error)
	ClickFn   func(ctx context.Context, selector string, index int) error
	CountFn   func(ctx context.Context, selector string) (int, error)
	VisibleFn func(ctx context.Context, selector string, index int) (bool, error)
	ValueFn   func(ctx context.Context, selector string, index int) (string, error)
	EditorFn  func(ctx context.Context, selector string, index int) (lessondump.Editor, error)
	CloseFn   func() error
}

func (p *Page) URL(ctx context.Context) (string, error) {
	return p.URLFn(ctx)
}

func (p *Page) Title(ctx context.Context) (string, error) {
	return p.TitleFn(ctx)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Click(ctx context.Context, selector string, index int) error {
	return p.ClickFn(ctx, selector, index)
}

func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	return p.CountFn(ctx, selector)
}

func (p *Page) Visible(ctx context.Context, selector string, index int) (bool, error) {
	return p.VisibleFn(ctx, selector, index)
}

func (p *Page) Value(ctx context.Context, selector string, index int) (string, error) {
	return p.ValueFn(ctx, selector, index)
}

func (p *Page) Editor(ctx context.Context, selector string, index int) (lessondump.Editor, error) {
	return p.EditorFn(ctx, selector, index)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// Editor is a mock implementation of lessondump.Editor.
type Editor struct {
	DocumentTextFn  func(ctx context.Context, maxDepth int) (string, bool, error)
	MetricsFn       func(ctx context.Context) (lessondump.ScrollMetrics, error)
	ScrollToFn      func(ctx context.Context, top int) error
	RenderedLinesFn func(ctx context.Context) ([]lessondump.RenderedLine, error)
}

func (e *Editor) DocumentText(ctx context.Context, maxDepth int) (string, bool, error) {
	return e.DocumentTextFn(ctx, maxDepth)
}

func (e *Editor) Metrics(ctx context.Context) (lessondump.ScrollMetrics, error) {
	return e.MetricsFn(ctx)
}

func (e *Editor) ScrollTo(ctx context.Context, top int) error {
	return e.ScrollToFn(ctx, top)
}

func (e *Editor) RenderedLines(ctx context.Context) ([]lessondump.RenderedLine, error) {
	return e.RenderedLinesFn(ctx)
}

// DomainLimiter is a mock implementation of lessondump.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

var _ lessondump.DomainLimiter = (*DomainLimiter)(nil)

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
