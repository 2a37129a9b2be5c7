package chromedp

import (
	"context"
	"encoding/json"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/script"
)

// Compile-time interface verification.
var (
	_ lessondump.Page   = (*Page)(nil)
	_ lessondump.Editor = (*Editor)(nil)
)

// Page is one browser tab.
type Page struct {
	ctx       context.Context
	cancel    context.CancelFunc
	selectors lessondump.Selectors
}

// run executes actions in the tab, stopping early when ctx is done.
// Canceling the derived context aborts the actions without closing the tab.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// eval applies a page script to t and decodes its result into res.
func (p *Page) eval(ctx context.Context, fn string, t script.Target, res any) error {
	expr, err := script.Call(fn, t)
	if err != nil {
		return err
	}
	var raw json.RawMessage
	if err := p.run(ctx, chromedp.Evaluate(expr, &raw, awaitPromise)); err != nil {
		return err
	}
	return json.Unmarshal(raw, res)
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// URL returns the current location.
func (p *Page) URL(ctx context.Context) (string, error) {
	var u string
	err := p.run(ctx, chromedp.Location(&u))
	return u, err
}

// Title returns the document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	var title string
	err := p.run(ctx, chromedp.Title(&title))
	return title, err
}

// HTML returns the serialized document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Click clicks the element at index among selector matches.
func (p *Page) Click(ctx context.Context, selector string, index int) error {
	var found bool
	if err := p.eval(ctx, script.Click, script.Element(selector, index), &found); err != nil {
		return err
	}
	if !found {
		return lessondump.Errorf(lessondump.ENOTFOUND, "no element %s[%d]", selector, index)
	}
	return nil
}

// Count returns the number of selector matches.
func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	var n int
	err := p.eval(ctx, script.Count, script.Element(selector, 0), &n)
	return n, err
}

// Visible reports whether the element is displayed with a usable size.
func (p *Page) Visible(ctx context.Context, selector string, index int) (bool, error) {
	var visible bool
	err := p.eval(ctx, script.Visible, script.Element(selector, index), &visible)
	return visible, err
}

// Value returns the live value of a form control.
func (p *Page) Value(ctx context.Context, selector string, index int) (string, error) {
	var value *string
	if err := p.eval(ctx, script.Value, script.Element(selector, index), &value); err != nil {
		return "", err
	}
	if value == nil {
		return "", lessondump.Errorf(lessondump.ENOTFOUND, "no element %s[%d]", selector, index)
	}
	return *value, nil
}

// Editor returns a handle on the editor rooted at the element.
func (p *Page) Editor(ctx context.Context, selector string, index int) (lessondump.Editor, error) {
	n, err := p.Count(ctx, selector)
	if err != nil {
		return nil, err
	}
	if index >= n {
		return nil, lessondump.Errorf(lessondump.ENOTFOUND, "no editor %s[%d]", selector, index)
	}
	return &Editor{page: p, target: script.EditorTarget(p.selectors, selector, index)}, nil
}

// Close closes the tab.
func (p *Page) Close() error {
	p.cancel()
	return nil
}

// Editor is a code editor inside a Page.
type Editor struct {
	page   *Page
	target script.Target
}

// DocumentText reads the document from the editor's state.
func (e *Editor) DocumentText(ctx context.Context, maxDepth int) (string, bool, error) {
	t := e.target
	t.MaxDepth = maxDepth
	var doc script.DocumentResult
	if err := e.page.eval(ctx, script.DocumentText, t, &doc); err != nil {
		return "", false, err
	}
	return doc.Text, doc.OK, nil
}

// Metrics reads the scroll geometry.
func (e *Editor) Metrics(ctx context.Context) (lessondump.ScrollMetrics, error) {
	var m *lessondump.ScrollMetrics
	if err := e.page.eval(ctx, script.Metrics, e.target, &m); err != nil {
		return lessondump.ScrollMetrics{}, err
	}
	if m == nil {
		return lessondump.ScrollMetrics{}, lessondump.Errorf(lessondump.ENOTFOUND, "editor detached")
	}
	return *m, nil
}

// ScrollTo sets the scroller's scrollTop.
func (e *Editor) ScrollTo(ctx context.Context, top int) error {
	t := e.target
	t.Top = top
	var ok bool
	if err := e.page.eval(ctx, script.ScrollTo, t, &ok); err != nil {
		return err
	}
	if !ok {
		return lessondump.Errorf(lessondump.ENOTFOUND, "editor detached")
	}
	return nil
}

// RenderedLines returns the mounted lines with their document offsets.
func (e *Editor) RenderedLines(ctx context.Context) ([]lessondump.RenderedLine, error) {
	var lines *[]lessondump.RenderedLine
	if err := e.page.eval(ctx, script.RenderedLines, e.target, &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		return nil, lessondump.Errorf(lessondump.ENOTFOUND, "editor detached")
	}
	return *lines, nil
}
