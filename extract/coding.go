package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/lessondump"
)

// codeFiles walks the editor tabs in on-page order and reads the editor each
// one reveals. The tab that was active on entry is re-activated before
// returning.
func (e *Extractor) codeFiles(ctx context.Context, page lessondump.Page, defaultLanguage string) ([]lessondump.CodeFile, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	tabs := e.Scraper.Tabs(html)
	if len(tabs) == 0 {
		return e.singleEditor(ctx, page, defaultLanguage)
	}

	initial := 0
	for i, tab := range tabs {
		if tab.Active {
			initial = i
			break
		}
	}
	defer func() {
		ctx := context.WithoutCancel(ctx)
		if err := page.Click(ctx, e.Selectors.TabButton, initial); err != nil {
			e.logger().Debug("restore tab failed", "tab", initial, "error", err)
			return
		}
		_ = Sleep(ctx, e.Config.TabSwitchDelay)
	}()

	files := []lessondump.CodeFile{}
	processed := make(map[int]bool)
	for i, tab := range tabs {
		if err := page.Click(ctx, e.Selectors.TabButton, i); err != nil {
			e.logger().Debug("tab click failed", "tab", i, "error", err)
			continue
		}
		if err := Sleep(ctx, e.Config.TabSwitchDelay); err != nil {
			return files, err
		}

		index, ok := e.findEditor(ctx, page, i, processed)
		if !ok {
			e.logger().Debug("no editor for tab", "tab", i)
			continue
		}
		processed[index] = true

		editor, err := page.Editor(ctx, e.Selectors.CodeEditor, index)
		if err != nil {
			e.logger().Debug("editor handle failed", "tab", i, "error", err)
			continue
		}

		name := tab.Name
		language := defaultLanguage
		if name == "" {
			name = fmt.Sprintf("file_%d", i)
		} else if lang, ok := lessondump.LanguageFromFilename(name); ok {
			language = lang
		}

		files = append(files, lessondump.CodeFile{
			FileName: name,
			Code:     e.reader().Read(ctx, editor),
			Language: language,
			IsActive: i == initial,
		})
	}
	return files, nil
}

// findEditor polls for a visible editor that has not been read yet. When
// none shows up it falls back to the editor at the tab's position.
func (e *Extractor) findEditor(ctx context.Context, page lessondump.Page, tab int, processed map[int]bool) (int, bool) {
	found := -1
	WaitUntil(ctx, e.Config.EditorAppearTimeout, e.Config.PollInterval, func(ctx context.Context) bool {
		n, err := page.Count(ctx, e.Selectors.CodeEditor)
		if err != nil {
			return false
		}
		for i := 0; i < n; i++ {
			if processed[i] {
				continue
			}
			if visible, err := page.Visible(ctx, e.Selectors.CodeEditor, i); err == nil && visible {
				found = i
				return true
			}
		}
		return false
	})
	if found >= 0 {
		return found, true
	}

	n, err := page.Count(ctx, e.Selectors.CodeEditor)
	if err != nil || tab >= n || processed[tab] {
		return 0, false
	}
	return tab, true
}

// singleEditor reads the first visible editor of a page without tabs.
func (e *Extractor) singleEditor(ctx context.Context, page lessondump.Page, language string) ([]lessondump.CodeFile, error) {
	index, ok := e.findEditor(ctx, page, 0, map[int]bool{})
	if !ok {
		return []lessondump.CodeFile{}, nil
	}
	editor, err := page.Editor(ctx, e.Selectors.CodeEditor, index)
	if err != nil {
		return []lessondump.CodeFile{}, nil
	}
	return []lessondump.CodeFile{{
		FileName: "file_0",
		Code:     e.reader().Read(ctx, editor),
		Language: language,
		IsActive: true,
	}}, nil
}

// MainFile returns the file holding the user's code: the first whose name
// mentions main, index or solution and is not a test file.
func MainFile(files []lessondump.CodeFile) (lessondump.CodeFile, bool) {
	for _, f := range files {
		name := strings.ToLower(f.FileName)
		if strings.Contains(name, "test") {
			continue
		}
		if strings.Contains(name, "main") || strings.Contains(name, "index") || strings.Contains(name, "solution") {
			return f, true
		}
	}
	return lessondump.CodeFile{}, false
}

// codingSolution reads the right-hand editor of the solution merge view.
func (e *Extractor) codingSolution(ctx context.Context, page lessondump.Page) string {
	n, err := page.Count(ctx, e.Selectors.MergeEditor)
	if err != nil || n < 2 {
		return lessondump.SolutionNotAvailable
	}
	editor, err := page.Editor(ctx, e.Selectors.MergeEditor, 1)
	if err != nil {
		return lessondump.SolutionNotAvailable
	}
	code := e.reader().Read(ctx, editor)
	if strings.TrimSpace(code) == "" {
		return lessondump.SolutionNotAvailable
	}
	return code
}
