package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/lessondump"
)

// Ensure Extractor implements lessondump.ContentExtractor at compile time.
var _ lessondump.ContentExtractor = (*Extractor)(nil)

// Extractor runs the extraction pipeline on one opened exercise page:
// classify, read the shared viewer, run the extractor for the exercise type,
// reveal and read the solution, walk the chats, then validate.
//
// Steps run strictly one after another against the same page. Every step
// runs behind a recover boundary; a failing step leaves its fields empty or
// writes a sentinel and the pipeline moves on.
type Extractor struct {
	Classifier lessondump.Classifier
	Scraper    lessondump.Scraper
	Strategies []EditorStrategy
	Selectors  lessondump.Selectors
	Config     lessondump.ExtractionConfig
	Settings   lessondump.Settings
	Logger     *slog.Logger

	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewExtractor returns an Extractor using the default selectors, timings,
// settings and editor strategies.
func NewExtractor(classifier lessondump.Classifier, scraper lessondump.Scraper) *Extractor {
	cfg := lessondump.DefaultExtractionConfig()
	return &Extractor{
		Classifier: classifier,
		Scraper:    scraper,
		Strategies: DefaultStrategies(cfg),
		Selectors:  lessondump.DefaultSelectors(),
		Config:     cfg,
		Settings:   lessondump.DefaultSettings(),
	}
}

// Extract implements lessondump.ContentExtractor.
func (e *Extractor) Extract(ctx context.Context, page lessondump.Page) (*lessondump.ContentRecord, error) {
	rawURL, err := page.URL(ctx)
	if err != nil {
		return nil, lessondump.Errorf(lessondump.EINTERNAL, "read page url: %v", err)
	}
	contentType, ok := lessondump.ContentTypeFromURL(rawURL)
	if !ok {
		return nil, lessondump.Errorf(lessondump.ENOTFOUND, "not an exercise page: %s", rawURL)
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, lessondump.Errorf(lessondump.EINTERNAL, "snapshot page: %v", err)
	}
	title, _ := page.Title(ctx)

	rec := lessondump.NewContentRecord()
	rec.ContentType = contentType
	rec.Language = lessondump.DetectLanguage(rawURL, title)
	if e.Settings.IncludeMetadata {
		now := e.now()
		rec.URL = rawURL
		rec.Timestamp = &now
	}

	e.guard("viewer", func() error {
		v := e.Scraper.Viewer(html, rec.Language)
		rec.Title = v.Title
		rec.Description = v.Description
		rec.Requirements = nonNil(v.Requirements)
		rec.Notes = nonNil(v.Notes)
		rec.Examples = nonNil(v.Examples)
		rec.Rating = v.Rating
		return nil
	})

	rec.ExerciseType = e.Classifier.Classify(html)
	e.logger().Debug("exercise classified", "url", rawURL, "type", rec.ExerciseType)

	switch rec.ExerciseType {
	case lessondump.ExerciseCoding:
		e.extractCoding(ctx, page, rec)
	case lessondump.ExerciseInterview:
		e.extractInterview(html, rec)
	case lessondump.ExerciseMultipleChoice:
		e.extractMultipleChoice(html, rec)
	case lessondump.ExerciseFreeText:
		e.extractFreeText(ctx, page, html, rec)
	case lessondump.ExerciseCLI:
		e.extractCLI(html, rec)
	}

	if e.Settings.ExtractSolution {
		e.extractSolution(ctx, page, rec)
	}

	if e.Settings.ExtractChats {
		e.guard("chats", func() error {
			chats, err := e.chats(ctx, page)
			if len(chats) > 0 {
				rec.Chats = chats
			}
			return err
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (e *Extractor) extractCoding(ctx context.Context, page lessondump.Page, rec *lessondump.ContentRecord) {
	rec.Coding = &lessondump.Coding{Files: []lessondump.CodeFile{}}
	e.guard("code files", func() error {
		files, err := e.codeFiles(ctx, page, rec.Language)
		if files != nil {
			rec.Coding.Files = files
		}
		return err
	})
	if main, ok := MainFile(rec.Coding.Files); ok {
		rec.Coding.UserCode = main.Code
		rec.Language = main.Language
	}
}

func (e *Extractor) extractInterview(html string, rec *lessondump.ContentRecord) {
	rec.Interview = &lessondump.Interview{
		Messages:       []lessondump.InterviewMessage{},
		ExpectedPoints: []lessondump.ExpectedPoint{},
	}
	e.guard("interview", func() error {
		rec.Interview.Messages = nonNil(e.Scraper.InterviewMessages(html))
		return nil
	})
}

func (e *Extractor) extractMultipleChoice(html string, rec *lessondump.ContentRecord) {
	rec.MultipleChoice = &lessondump.MultipleChoice{Options: []lessondump.Option{}}
	e.guard("multiple choice", func() error {
		if mc := e.Scraper.MultipleChoice(html); mc != nil {
			rec.MultipleChoice = mc
		}
		return nil
	})
}

func (e *Extractor) extractFreeText(ctx context.Context, page lessondump.Page, html string, rec *lessondump.ContentRecord) {
	rec.FreeText = &lessondump.FreeText{Checks: []lessondump.FreeTextCheck{}}
	e.guard("free text", func() error {
		if ft := e.Scraper.FreeText(html); ft != nil {
			rec.FreeText = ft
		}
		value, err := page.Value(ctx, e.Selectors.FreeTextInput, 0)
		if err != nil {
			return fmt.Errorf("read answer: %w", err)
		}
		rec.FreeText.UserAnswer = value
		return nil
	})
}

func (e *Extractor) extractCLI(html string, rec *lessondump.ContentRecord) {
	rec.CLI = &lessondump.CLI{Checks: []lessondump.CLICheck{}}
	e.guard("cli", func() error {
		if cli := e.Scraper.CLI(html); cli != nil {
			rec.CLI = cli
		}
		return nil
	})
}

// extractSolution reveals the solution when auto-open is enabled and reads
// it. Only coding and interview exercises carry a solution.
func (e *Extractor) extractSolution(ctx context.Context, page lessondump.Page, rec *lessondump.ContentRecord) {
	var notAvailable string
	var set func(string)
	switch {
	case rec.Coding != nil:
		notAvailable = lessondump.SolutionNotAvailable
		set = func(s string) { rec.Coding.Solution = s }
	case rec.Interview != nil:
		notAvailable = lessondump.InterviewSolutionNotAvailable
		set = func(s string) { rec.Interview.Solution = s }
	default:
		return
	}

	state := SolutionClosed
	if e.Settings.AutoOpenSolution {
		e.guard("solution reveal", func() error {
			state = e.opener().Open(ctx, page, rec.ExerciseType)
			return nil
		})
	}
	e.logger().Debug("solution state", "url", rec.URL, "state", state.String(), "revealed", state.Revealed())
	if state == SolutionDenied {
		set(notAvailable)
		return
	}

	if !e.guard("solution", func() error {
		if rec.Coding != nil {
			set(e.codingSolution(ctx, page))
			return nil
		}
		html, err := page.HTML(ctx)
		if err != nil {
			return err
		}
		points, solution, ok := e.Scraper.InterviewSolution(html)
		if !ok {
			set(notAvailable)
			return nil
		}
		rec.Interview.ExpectedPoints = nonNil(points)
		set(solution)
		return nil
	}) {
		set(lessondump.SolutionExtractionFailed)
	}
}

// guard runs one pipeline step, turning a panic or an error into a logged
// failure. It reports whether the step succeeded.
func (e *Extractor) guard(step string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger().Error("extraction step panicked", "step", step, "panic", r)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		e.logger().Warn("extraction step failed", "step", step, "error", err)
		return false
	}
	return true
}

func (e *Extractor) reader() *Reader {
	strategies := e.Strategies
	if strategies == nil {
		strategies = DefaultStrategies(e.Config)
	}
	return &Reader{Strategies: strategies, Logger: e.Logger}
}

func (e *Extractor) opener() *Opener {
	return &Opener{
		Scraper:   e.Scraper,
		Selectors: e.Selectors,
		Config:    e.Config,
		Logger:    e.Logger,
	}
}

func (e *Extractor) logger() *slog.Logger {
	return loggerOrDiscard(e.Logger)
}

func (e *Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
