package lessondump

import "context"

// Browser opens pages in a real browser.
type Browser interface {
	// Open navigates a new page to url and waits for it to load.
	// The caller must close the returned page.
	Open(ctx context.Context, url string) (Page, error)

	// Close releases the browser. Pages opened from it become unusable.
	Close() error
}

// Page is the live document of one opened exercise page.
//
// Elements are addressed by a CSS selector and a zero-based index into the
// elements matching it in document order, the same order goquery reports
// for a snapshot taken with HTML.
type Page interface {
	// URL returns the current location of the page.
	URL(ctx context.Context) (string, error)

	// Title returns document.title.
	Title(ctx context.Context) (string, error)

	// HTML returns a serialized snapshot of the whole document.
	HTML(ctx context.Context) (string, error)

	// Click dispatches a click on the element. Returns ENOTFOUND if there
	// is no element at index.
	Click(ctx context.Context, selector string, index int) error

	// Count returns the number of elements matching selector.
	Count(ctx context.Context, selector string) (int, error)

	// Visible reports whether the element exists and is rendered with a
	// non-zero client height.
	Visible(ctx context.Context, selector string, index int) (bool, error)

	// Value returns the live value of a form control, which a snapshot
	// does not carry.
	Value(ctx context.Context, selector string, index int) (string, error)

	// Editor returns a handle on the code editor rooted at the element.
	// Returns ENOTFOUND if there is no element at index.
	Editor(ctx context.Context, selector string, index int) (Editor, error)

	// Close closes the page.
	Close() error
}

// Editor is a handle on one mounted code editor.
type Editor interface {
	// DocumentText returns the full document held by the editor's internal
	// state, found by walking up to maxDepth ancestors of the editor element.
	// ok is false when no editor state is reachable.
	DocumentText(ctx context.Context, maxDepth int) (text string, ok bool, err error)

	// Metrics reports the scroll geometry of the editor's scroll container.
	Metrics(ctx context.Context) (ScrollMetrics, error)

	// ScrollTo sets the scroll container's scrollTop.
	ScrollTo(ctx context.Context, top int) error

	// RenderedLines returns the lines currently mounted in the DOM.
	RenderedLines(ctx context.Context) ([]RenderedLine, error)
}

// ScrollMetrics is the scroll geometry of an editor viewport.
type ScrollMetrics struct {
	ScrollTop    int `json:"scrollTop"`
	ScrollHeight int `json:"scrollHeight"`
	ClientHeight int `json:"clientHeight"`
}

// RenderedLine is one mounted editor line. Top is the line's offset from the
// top of the document (not the viewport), so lines captured at different
// scroll positions can be merged.
type RenderedLine struct {
	Text string  `json:"text"`
	Top  float64 `json:"top"`
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
