//go:build integration

package chromedp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<!DOCTYPE html>
<html><head><title>Fixture</title></head>
<body>
<div class="viewer"><h1>Fixture</h1></div>
<ul role="tablist"><li><button aria-selected="true">main.go</button></li><li><button onclick="document.getElementById('second').style.display='block'">main_test.go</button></li></ul>
<div class="cm-editor"><div class="cm-scroller" style="height:100px;overflow:auto"><div class="cm-content" role="textbox"><div class="cm-line">package main</div><div class="cm-line">func main() {}</div></div></div></div>
<div id="second" style="display:none"><div class="cm-editor"><div class="cm-scroller"><div class="cm-content" role="textbox"><div class="cm-line">package main_test</div></div></div></div></div>
</body></html>`

func TestPage_Integration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	browser, err := chromedp.NewBrowser(lessondump.DefaultSelectors(), chromedp.Options{Headless: true})
	require.NoError(t, err)
	defer browser.Close()
	browser.ReadyTimeout = 2 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := browser.Open(ctx, srv.URL)
	require.NoError(t, err)
	defer page.Close()

	selectors := lessondump.DefaultSelectors()

	title, err := page.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fixture", title)

	n, err := page.Count(ctx, selectors.CodeEditor)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	visible, err := page.Visible(ctx, selectors.CodeEditor, 1)
	require.NoError(t, err)
	assert.False(t, visible)

	require.NoError(t, page.Click(ctx, selectors.TabButton, 1))

	visible, err = page.Visible(ctx, selectors.CodeEditor, 1)
	require.NoError(t, err)
	assert.True(t, visible)

	editor, err := page.Editor(ctx, selectors.CodeEditor, 0)
	require.NoError(t, err)

	lines, err := editor.RenderedLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "package main", lines[0].Text)
	assert.Less(t, lines[0].Top, lines[1].Top)

	_, err = page.Editor(ctx, selectors.CodeEditor, 7)
	assert.Equal(t, lessondump.ENOTFOUND, lessondump.ErrorCode(err))

	_, err = page.Value(ctx, selectors.FreeTextInput, 0)
	assert.Equal(t, lessondump.ENOTFOUND, lessondump.ErrorCode(err))
}
