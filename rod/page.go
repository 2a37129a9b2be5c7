package rod

import (
	"context"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/script"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Compile-time interface verification.
var (
	_ lessondump.Page   = (*Page)(nil)
	_ lessondump.Editor = (*Editor)(nil)
)

// Page is one browser tab. Every call is bound to the caller's context.
type Page struct {
	page      *rod.Page
	selectors lessondump.Selectors
}

func (p *Page) eval(ctx context.Context, fn string, t script.Target) (*proto.RuntimeRemoteObject, error) {
	return p.page.Context(ctx).Eval(fn, t)
}

// URL returns the current location.
func (p *Page) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Title returns the document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

// HTML returns the serialized document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Click clicks the element at index among selector matches.
func (p *Page) Click(ctx context.Context, selector string, index int) error {
	res, err := p.eval(ctx, script.Click, script.Element(selector, index))
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return lessondump.Errorf(lessondump.ENOTFOUND, "no element %s[%d]", selector, index)
	}
	return nil
}

// Count returns the number of selector matches.
func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	res, err := p.eval(ctx, script.Count, script.Element(selector, 0))
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// Visible reports whether the element is displayed with a usable size.
func (p *Page) Visible(ctx context.Context, selector string, index int) (bool, error) {
	res, err := p.eval(ctx, script.Visible, script.Element(selector, index))
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// Value returns the live value of a form control.
func (p *Page) Value(ctx context.Context, selector string, index int) (string, error) {
	res, err := p.eval(ctx, script.Value, script.Element(selector, index))
	if err != nil {
		return "", err
	}
	if res.Value.Nil() {
		return "", lessondump.Errorf(lessondump.ENOTFOUND, "no element %s[%d]", selector, index)
	}
	return res.Value.Str(), nil
}

// Editor returns a handle on the editor rooted at the element. The handle
// re-resolves the element on every call, so it survives re-renders that
// keep the element's position.
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
	return p.page.Close()
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
	res, err := e.page.eval(ctx, script.DocumentText, t)
	if err != nil {
		return "", false, err
	}
	var doc script.DocumentResult
	if err := res.Value.Unmarshal(&doc); err != nil {
		return "", false, err
	}
	return doc.Text, doc.OK, nil
}

// Metrics reads the scroll geometry.
func (e *Editor) Metrics(ctx context.Context) (lessondump.ScrollMetrics, error) {
	var m lessondump.ScrollMetrics
	res, err := e.page.eval(ctx, script.Metrics, e.target)
	if err != nil {
		return m, err
	}
	if res.Value.Nil() {
		return m, lessondump.Errorf(lessondump.ENOTFOUND, "editor detached")
	}
	err = res.Value.Unmarshal(&m)
	return m, err
}

// ScrollTo sets the scroller's scrollTop.
func (e *Editor) ScrollTo(ctx context.Context, top int) error {
	t := e.target
	t.Top = top
	res, err := e.page.eval(ctx, script.ScrollTo, t)
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return lessondump.Errorf(lessondump.ENOTFOUND, "editor detached")
	}
	return nil
}

// RenderedLines returns the mounted lines with their document offsets.
func (e *Editor) RenderedLines(ctx context.Context) ([]lessondump.RenderedLine, error) {
	res, err := e.page.eval(ctx, script.RenderedLines, e.target)
	if err != nil {
		return nil, err
	}
	if res.Value.Nil() {
		return nil, lessondump.Errorf(lessondump.ENOTFOUND, "editor detached")
	}
	var lines []lessondump.RenderedLine
	err = res.Value.Unmarshal(&lines)
	return lines, err
}
