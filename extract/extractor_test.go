package extract_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/extract"
	"github.com/fwojciec/lessondump/goquery"
	"github.com/fwojciec/lessondump/htmltomarkdown"
	"github.com/fwojciec/lessondump/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lessonURL = "https://www.boot.dev/lessons/5f1c-learn-python"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newExtractor() *extract.Extractor {
	selectors := lessondump.DefaultSelectors()
	normalizer := goquery.NewNormalizer(selectors, htmltomarkdown.NewConverter())
	e := extract.NewExtractor(goquery.NewClassifier(selectors), goquery.NewScraper(selectors, normalizer))
	e.Config = fastConfig()
	e.Strategies = extract.DefaultStrategies(e.Config)
	e.Now = func() time.Time { return fixedNow }
	return e
}

func twoTabSite() *site {
	s := newSite(lessonURL)
	s.title = "Word Count | Learn Python | Boot.dev"
	s.files = []siteFile{
		{name: "main.py", code: "def count(text):\n    return len(text.split())"},
		{name: "main_test.py", code: "from main import count\n\nassert count('a b') == 2"},
	}
	return s
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("rejects pages outside the exercise site", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			URLFn: func(context.Context) (string, error) { return "https://example.com/lessons/1", nil },
		}

		rec, err := newExtractor().Extract(context.Background(), page)

		assert.Nil(t, rec)
		assert.Equal(t, lessondump.ENOTFOUND, lessondump.ErrorCode(err))
	})

	t.Run("rejects site pages that are not exercises", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			URLFn: func(context.Context) (string, error) { return "https://www.boot.dev/courses", nil },
		}

		_, err := newExtractor().Extract(context.Background(), page)

		assert.Equal(t, lessondump.ENOTFOUND, lessondump.ErrorCode(err))
	})

	t.Run("reports snapshot failure as internal", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			URLFn:  func(context.Context) (string, error) { return lessonURL, nil },
			HTMLFn: func(context.Context) (string, error) { return "", errors.New("target closed") },
		}

		_, err := newExtractor().Extract(context.Background(), page)

		assert.Equal(t, lessondump.EINTERNAL, lessondump.ErrorCode(err))
	})

	t.Run("leaves validation warnings to the caller", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.viewer = `<h1>Word Count</h1>`
		var logs bytes.Buffer
		e := newExtractor()
		e.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		rec, err := e.Extract(context.Background(), s)

		require.NoError(t, err)
		assert.NotEmpty(t, rec.Warnings())
		assert.NotContains(t, logs.String(), "warning=")
	})

	t.Run("reads every tab and restores the initial one", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, lessondump.ContentLesson, rec.ContentType)
		assert.Equal(t, lessondump.ExerciseCoding, rec.ExerciseType)
		assert.Equal(t, "Word Count", rec.Title)
		assert.Equal(t, "Count the words.", rec.Description)

		require.NotNil(t, rec.Coding)
		require.Len(t, rec.Coding.Files, 2)
		assert.Equal(t, lessondump.CodeFile{FileName: "main.py", Code: s.files[0].code, Language: "python", IsActive: true}, rec.Coding.Files[0])
		assert.Equal(t, lessondump.CodeFile{FileName: "main_test.py", Code: s.files[1].code, Language: "python", IsActive: false}, rec.Coding.Files[1])
		assert.Equal(t, s.files[0].code, rec.Coding.UserCode)
		assert.Equal(t, "python", rec.Language)

		assert.Equal(t, 0, s.active)
		assert.Equal(t, []string{"tab-0", "tab-1", "tab-0"}, s.clicks)
	})

	t.Run("marks the tab active before extraction", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.active = 1

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		require.Len(t, rec.Coding.Files, 2)
		assert.False(t, rec.Coding.Files[0].IsActive)
		assert.True(t, rec.Coding.Files[1].IsActive)
		assert.Equal(t, 1, s.active)
		assert.Equal(t, s.files[0].code, rec.Coding.UserCode)
	})

	t.Run("reads a single editor without tabs", func(t *testing.T) {
		t.Parallel()

		s := newSite(lessonURL)
		s.title = "Hello | Learn Python | Boot.dev"
		s.files = []siteFile{{name: "ignored", code: "print('hi')"}}

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		require.Len(t, rec.Coding.Files, 1)
		assert.Equal(t, "file_0", rec.Coding.Files[0].FileName)
		assert.Equal(t, "print('hi')", rec.Coding.Files[0].Code)
		assert.Equal(t, "python", rec.Coding.Files[0].Language)
	})

	t.Run("writes sentinel when solution view is closed", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, lessondump.SolutionNotAvailable, rec.Coding.Solution)
	})

	t.Run("reads the revealed solution editor", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.hasReveal = true
		s.solution = "def count(text):\n    return len(text.split())  # ok"
		e := newExtractor()
		e.Settings.AutoOpenSolution = true

		rec, err := e.Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, s.solution, rec.Coding.Solution)
		assert.Contains(t, s.clicks, "reveal")
	})

	t.Run("reads a solution that was already open", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.hasReveal = true
		s.revealed = true
		s.solution = "solved"

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, "solved", rec.Coding.Solution)
		assert.NotContains(t, s.clicks, "reveal")
	})

	t.Run("dismisses the gate and skips the solution", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.hasReveal = true
		s.gated = true
		s.solution = "must not be read"
		e := newExtractor()
		e.Settings.AutoOpenSolution = true

		rec, err := e.Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, lessondump.SolutionNotAvailable, rec.Coding.Solution)
		assert.Contains(t, s.clicks, "gate-cancel")
		assert.False(t, s.gateOpen)
		assert.NotContains(t, s.reads, "merge-right")
	})

	t.Run("leaves solution empty when disabled", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.hasReveal = true
		s.revealed = true
		s.solution = "solved"
		e := newExtractor()
		e.Settings.ExtractSolution = false

		rec, err := e.Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Empty(t, rec.Coding.Solution)
	})

	t.Run("records metadata when enabled", func(t *testing.T) {
		t.Parallel()

		rec, err := newExtractor().Extract(context.Background(), twoTabSite())

		require.NoError(t, err)
		assert.Equal(t, lessonURL, rec.URL)
		require.NotNil(t, rec.Timestamp)
		assert.Equal(t, fixedNow, *rec.Timestamp)
	})

	t.Run("omits metadata when disabled", func(t *testing.T) {
		t.Parallel()

		e := newExtractor()
		e.Settings.IncludeMetadata = false

		rec, err := e.Extract(context.Background(), twoTabSite())

		require.NoError(t, err)
		assert.Empty(t, rec.URL)
		assert.Nil(t, rec.Timestamp)
	})

	t.Run("extracting twice yields the same record", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.chats = []siteChat{{title: "Hint", messages: []string{"Try split.", "Thanks"}}}
		e := newExtractor()

		first, err := e.Extract(context.Background(), s)
		require.NoError(t, err)
		second, err := e.Extract(context.Background(), s)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 0, s.active)
		assert.Equal(t, -1, s.openChat)
	})

	t.Run("walks each chat", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.chats = []siteChat{
			{title: "Hint", messages: []string{"Try split.", "Thanks"}},
			{title: "Explain", messages: []string{"Strings split on spaces."}},
		}

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		require.Len(t, rec.Chats, 2)
		assert.Equal(t, "Hint", rec.Chats[0].Title)
		assert.Equal(t, []lessondump.ChatMessage{
			{Speaker: lessondump.SpeakerBoots, Content: "Try split."},
			{Speaker: lessondump.SpeakerUser, Content: "Thanks"},
		}, rec.Chats[0].Messages)
		assert.Equal(t, "Explain", rec.Chats[1].Title)
		require.Len(t, rec.Chats[1].Messages, 1)
		assert.Equal(t, -1, s.openChat)
	})

	t.Run("skips chats when disabled", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		s.chats = []siteChat{{title: "Hint", messages: []string{"Try split."}}}
		e := newExtractor()
		e.Settings.ExtractChats = false

		rec, err := e.Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Empty(t, rec.Chats)
		assert.NotContains(t, s.clicks, "chat-0")
	})

	t.Run("reads multiple choice", func(t *testing.T) {
		t.Parallel()

		s := newSite("https://www.boot.dev/lessons/42")
		s.extra = `<div class="viewer-mcq"><h3>Which is a map?</h3>` +
			`<button>list</button><button class="ring-2">dict</button></div>`

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, lessondump.ExerciseMultipleChoice, rec.ExerciseType)
		require.NotNil(t, rec.MultipleChoice)
		assert.Nil(t, rec.Coding)
		assert.Equal(t, "Which is a map?", rec.MultipleChoice.Question)
		require.NotNil(t, rec.MultipleChoice.SelectedAnswer)
		assert.Equal(t, 2, *rec.MultipleChoice.SelectedAnswer)
	})

	t.Run("reads the live free text answer", func(t *testing.T) {
		t.Parallel()

		s := newSite("https://www.boot.dev/lessons/43")
		s.extra = `<textarea aria-label="Lesson answer">stale</textarea>`
		s.answer = "typed by the user"

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, lessondump.ExerciseFreeText, rec.ExerciseType)
		require.NotNil(t, rec.FreeText)
		assert.Equal(t, "typed by the user", rec.FreeText.UserAnswer)
		assert.False(t, rec.FreeText.ChecksVisible)
	})

	t.Run("reads cli commands", func(t *testing.T) {
		t.Parallel()

		s := newSite("https://www.boot.dev/lessons/44")
		s.extra = `<div><p class="font-mono">bootdev run 44</p><p class="font-mono">bootdev run 44 -s</p></div>`

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, lessondump.ExerciseCLI, rec.ExerciseType)
		require.NotNil(t, rec.CLI)
		assert.Equal(t, "bootdev run 44", rec.CLI.RunCommand)
		assert.Equal(t, "bootdev run 44 -s", rec.CLI.SubmitCommand)
	})

	t.Run("writes failure sentinel when solution read panics", func(t *testing.T) {
		t.Parallel()

		s := newSite("https://www.boot.dev/challenges/7")
		s.extra = `<div id="interview-side"><div class="grid"><img src="/b.png"><div class="viewer"><p>Explain maps.</p></div></div></div>`
		e := newExtractor()
		e.Scraper = &panickyScraper{Scraper: e.Scraper}

		rec, err := e.Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, lessondump.ContentChallenge, rec.ContentType)
		assert.Equal(t, lessondump.ExerciseInterview, rec.ExerciseType)
		require.NotNil(t, rec.Interview)
		require.Len(t, rec.Interview.Messages, 1)
		assert.Equal(t, lessondump.SpeakerBoots, rec.Interview.Messages[0].Speaker)
		assert.Equal(t, lessondump.SolutionExtractionFailed, rec.Interview.Solution)
	})

	t.Run("writes interview sentinel when criteria are hidden", func(t *testing.T) {
		t.Parallel()

		s := newSite("https://www.boot.dev/challenges/8")
		s.extra = `<div id="interview-side"><div class="grid"><img src="/b.png"><div class="viewer"><p>Explain maps.</p></div></div></div>`

		rec, err := newExtractor().Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, lessondump.InterviewSolutionNotAvailable, rec.Interview.Solution)
		assert.Empty(t, rec.Interview.ExpectedPoints)
	})

	t.Run("keeps going when a step panics", func(t *testing.T) {
		t.Parallel()

		s := twoTabSite()
		e := newExtractor()
		e.Scraper = &panickyScraper{Scraper: e.Scraper, tabs: true}

		rec, err := e.Extract(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, "Word Count", rec.Title)
		require.NotNil(t, rec.Coding)
		assert.Empty(t, rec.Coding.Files)
	})
}

// panickyScraper fails the interview solution read, and optionally the tab
// listing, with a panic.
type panickyScraper struct {
	lessondump.Scraper
	tabs bool
}

func (s *panickyScraper) InterviewSolution(string) ([]lessondump.ExpectedPoint, string, bool) {
	panic("criteria box changed shape")
}

func (s *panickyScraper) Tabs(html string) []lessondump.Tab {
	if s.tabs {
		panic("tab list changed shape")
	}
	return s.Scraper.Tabs(html)
}
