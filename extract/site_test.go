package extract_test

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lessondump"
)

var _ lessondump.Page = (*site)(nil)

// site is an in-memory exercise page. It renders its state as markup and
// resolves selector/index addressing against that markup with goquery, the
// same way the browser drivers resolve it against the live document.
type site struct {
	mu sync.Mutex

	url    string
	title  string
	viewer string
	extra  string

	files     []siteFile
	active    int
	hasReveal bool
	gated     bool
	revealed  bool
	gateOpen  bool
	solution  string
	answer    string
	chats     []siteChat
	openChat  int

	clicks []string
	reads  []string
}

type siteFile struct {
	name string
	code string
}

type siteChat struct {
	title    string
	messages []string
}

func newSite(url string) *site {
	return &site{
		url:      url,
		title:    "Exercise | Boot.dev",
		viewer:   `<h1>Word Count</h1><p>Count the words.</p>`,
		openChat: -1,
	}
}

func (s *site) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><head><title>%s</title></head><body>`, html.EscapeString(s.title))
	fmt.Fprintf(&b, `<div class="viewer">%s</div>`, s.viewer)

	if len(s.files) > 1 {
		b.WriteString(`<ul role="tablist">`)
		for i, f := range s.files {
			fmt.Fprintf(&b, `<li><button data-action="tab-%d" aria-selected="%t">%s</button></li>`, i, i == s.active, f.name)
		}
		b.WriteString(`</ul>`)
	}
	for i := range s.files {
		fmt.Fprintf(&b, `<div class="cm-editor"><div class="cm-scroller"><div class="cm-content" role="textbox" data-doc="file-%d" data-visible="%t"></div></div></div>`, i, i == s.active)
	}

	if s.hasReveal {
		label := "Show Solution"
		if s.revealed {
			label = "Hide Solution"
		}
		fmt.Fprintf(&b, `<button data-action="reveal">%s</button>`, label)
	}
	if s.revealed && len(s.files) > 0 {
		b.WriteString(`<div class="cm-mergeView">` +
			`<div class="cm-mergeViewEditor"><div class="cm-editor" data-doc="merge-left"></div></div>` +
			`<div class="cm-mergeViewEditor"><div class="cm-editor" data-doc="merge-right"></div></div>` +
			`</div>`)
	}
	if s.gateOpen {
		b.WriteString(`<div role="dialog"><p>Members only.</p>` +
			`<button data-action="gate-upgrade">Upgrade</button>` +
			`<button data-action="gate-cancel">Cancel</button></div>`)
	}

	for i, c := range s.chats {
		fmt.Fprintf(&b, `<button class="rounded-full border px-2.5 py-1" data-action="chat-%d">%s</button>`, i, c.title)
	}
	if s.openChat >= 0 {
		b.WriteString(`<div class="pb-4">`)
		for i, m := range s.chats[s.openChat].messages {
			avatar := `<img alt="You">`
			if i%2 == 0 {
				avatar = `<img alt="Boots">`
			}
			fmt.Fprintf(&b, `<div class="grid grid-cols-[50px_minmax(0,1fr)]">%s<div class="viewer"><p>%s</p></div></div>`, avatar, m)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(s.extra)
	b.WriteString(`</body></html>`)
	return b.String()
}

func (s *site) find(selector string, index int) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.render()))
	if err != nil {
		return nil, err
	}
	el := doc.Find(selector).Eq(index)
	if el.Length() == 0 {
		return nil, lessondump.Errorf(lessondump.ENOTFOUND, "no element %s[%d]", selector, index)
	}
	return el, nil
}

func (s *site) URL(context.Context) (string, error) { return s.url, nil }

func (s *site) Title(context.Context) (string, error) { return s.title, nil }

func (s *site) HTML(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(), nil
}

func (s *site) Click(_ context.Context, selector string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.find(selector, index)
	if err != nil {
		return err
	}
	action := el.AttrOr("data-action", "")
	s.clicks = append(s.clicks, action)

	switch {
	case strings.HasPrefix(action, "tab-"):
		s.active, _ = strconv.Atoi(strings.TrimPrefix(action, "tab-"))
	case action == "reveal":
		if s.gated {
			s.gateOpen = true
		} else {
			s.revealed = !s.revealed
		}
	case action == "gate-cancel":
		s.gateOpen = false
	case strings.HasPrefix(action, "chat-"):
		n, _ := strconv.Atoi(strings.TrimPrefix(action, "chat-"))
		if s.openChat == n {
			s.openChat = -1
		} else {
			s.openChat = n
		}
	}
	return nil
}

func (s *site) Count(_ context.Context, selector string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.render()))
	if err != nil {
		return 0, err
	}
	return doc.Find(selector).Length(), nil
}

func (s *site) Visible(_ context.Context, selector string, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.find(selector, index)
	if err != nil {
		return false, nil
	}
	return el.AttrOr("data-visible", "true") == "true", nil
}

func (s *site) Value(_ context.Context, selector string, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(selector, index); err != nil {
		return "", err
	}
	return s.answer, nil
}

func (s *site) Editor(_ context.Context, selector string, index int) (lessondump.Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.find(selector, index)
	if err != nil {
		return nil, err
	}
	doc := el.AttrOr("data-doc", "")
	s.reads = append(s.reads, doc)

	var text string
	switch {
	case doc == "merge-right":
		text = s.solution
	case doc == "merge-left":
		text = s.files[s.active].code
	case strings.HasPrefix(doc, "file-"):
		n, _ := strconv.Atoi(strings.TrimPrefix(doc, "file-"))
		text = s.files[n].code
	}
	return &stateEditor{text: text}, nil
}

func (s *site) Close() error { return nil }

// stateEditor exposes its whole document through editor state.
type stateEditor struct {
	text string
}

func (e *stateEditor) DocumentText(context.Context, int) (string, bool, error) {
	return e.text, true, nil
}

func (e *stateEditor) Metrics(context.Context) (lessondump.ScrollMetrics, error) {
	return lessondump.ScrollMetrics{}, nil
}

func (e *stateEditor) ScrollTo(context.Context, int) error { return nil }

func (e *stateEditor) RenderedLines(context.Context) ([]lessondump.RenderedLine, error) {
	return nil, nil
}
