package mock

import (
	"context"

	"github.com/fwojciec/lessondump"
)

// Compile-time interface verification.
var (
	_ lessondump.ContentExtractor = (*ContentExtractor)(nil)
	_ lessondump.Classifier       = (*Classifier)(nil)
	_ lessondump.Converter        = (*Converter)(nil)
	_ lessondump.Normalizer       = (*Normalizer)(nil)
	_ lessondump.Scraper          = (*Scraper)(nil)
)

// ContentExtractor is a mock implementation of lessondump.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(ctx context.Context, page lessondump.Page) (*lessondump.ContentRecord, error)
}

func (e *ContentExtractor) Extract(ctx context.Context, page lessondump.Page) (*lessondump.ContentRecord, error) {
	return e.ExtractFn(ctx, page)
}

// Classifier is a mock implementation of lessondump.Classifier.
type Classifier struct {
	ClassifyFn func(html string) lessondump.ExerciseType
}

func (c *Classifier) Classify(html string) lessondump.ExerciseType {
	return c.ClassifyFn(html)
}

// Converter is a mock implementation of lessondump.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Normalizer is a mock implementation of lessondump.Normalizer.
type Normalizer struct {
	MarkdownFn func(html string, defaultLanguage string) string
	DialogueFn func(html string) (string, []lessondump.CodeBlock)
}

func (n *Normalizer) Markdown(html string, defaultLanguage string) string {
	return n.MarkdownFn(html, defaultLanguage)
}

func (n *Normalizer) Dialogue(html string) (string, []lessondump.CodeBlock) {
	return n.DialogueFn(html)
}

// Scraper is a mock implementation of lessondump.Scraper.
type Scraper struct {
	ViewerFn            func(html string, language string) lessondump.Viewer
	TabsFn              func(html string) []lessondump.Tab
	InterviewMessagesFn func(html string) []lessondump.InterviewMessage
	InterviewSolutionFn func(html string) ([]lessondump.ExpectedPoint, string, bool)
	MultipleChoiceFn    func(html string) *lessondump.MultipleChoice
	FreeTextFn          func(html string) *lessondump.FreeText
	CLIFn               func(html string) *lessondump.CLI
	ChatTitlesFn        func(html string) []string
	ChatMessagesFn      func(html string) []lessondump.ChatMessage
	RevealControlFn     func(html string) lessondump.RevealControl
	GateDismissFn       func(html string) (string, int, bool)
}

func (s *Scraper) Viewer(html string, language string) lessondump.Viewer {
	return s.ViewerFn(html, language)
}

func (s *Scraper) Tabs(html string) []lessondump.Tab {
	return s.TabsFn(html)
}

func (s *Scraper) InterviewMessages(html string) []lessondump.InterviewMessage {
	return s.InterviewMessagesFn(html)
}

func (s *Scraper) InterviewSolution(html string) ([]lessondump.ExpectedPoint, string, bool) {
	return s.InterviewSolutionFn(html)
}

func (s *Scraper) MultipleChoice(html string) *lessondump.MultipleChoice {
	return s.MultipleChoiceFn(html)
}

func (s *Scraper) FreeText(html string) *lessondump.FreeText {
	return s.FreeTextFn(html)
}

func (s *Scraper) CLI(html string) *lessondump.CLI {
	return s.CLIFn(html)
}

func (s *Scraper) ChatTitles(html string) []string {
	return s.ChatTitlesFn(html)
}

func (s *Scraper) ChatMessages(html string) []lessondump.ChatMessage {
	return s.ChatMessagesFn(html)
}

func (s *Scraper) RevealControl(html string) lessondump.RevealControl {
	return s.RevealControlFn(html)
}

func (s *Scraper) GateDismiss(html string) (string, int, bool) {
	return s.GateDismissFn(html)
}
