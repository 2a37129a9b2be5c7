package lessondump

import "context"

// ContentExtractor turns an opened exercise page into a ContentRecord.
type ContentExtractor interface {
	// Extract runs the whole pipeline on page. Returns ENOTFOUND when the
	// page is not an exercise page. Failures of individual parts are
	// recorded in the returned record rather than returned.
	Extract(ctx context.Context, page Page) (*ContentRecord, error)
}

// Classifier decides which extraction path a page snapshot takes.
type Classifier interface {
	// Classify always returns one of ExerciseTypes; ExerciseCoding is the
	// fallback.
	Classify(html string) ExerciseType
}

// Normalizer turns rich-text HTML into markdown. It works on its own parsed
// copy of the input and never touches the live page.
type Normalizer interface {
	// Markdown converts a rich-text region. Code blocks without a
	// language class are tagged with defaultLanguage, and untagged when
	// defaultLanguage is LanguageUnknown.
	Markdown(html string, defaultLanguage string) string

	// Dialogue flattens a transcript message to whitespace-normalized text
	// while keeping its code blocks fenced in place. The returned blocks are
	// in document order.
	Dialogue(html string) (string, []CodeBlock)
}

// Scraper reads the static parts of an exercise from a page snapshot.
// Missing containers yield zero values, never errors.
type Scraper interface {
	// Viewer reads the shared rich-text fields of the exercise.
	Viewer(html string, language string) Viewer

	// Tabs lists the editor tabs in on-page order.
	Tabs(html string) []Tab

	// InterviewMessages reads the interview transcript.
	InterviewMessages(html string) []InterviewMessage

	// InterviewSolution reads the revealed criteria box. ok is false when
	// the box is not rendered.
	InterviewSolution(html string) (points []ExpectedPoint, solution string, ok bool)

	// MultipleChoice reads the question and its options. Returns nil when
	// the container is missing.
	MultipleChoice(html string) *MultipleChoice

	// FreeText reads the question and any rendered checks. UserAnswer is
	// left empty; the live value is not part of a snapshot.
	FreeText(html string) *FreeText

	// CLI reads the commands, instructions and checks.
	CLI(html string) *CLI

	// ChatTitles lists the chat buttons in on-page order.
	ChatTitles(html string) []string

	// ChatMessages reads the messages of the open chat panel.
	ChatMessages(html string) []ChatMessage

	// RevealControl locates the solution reveal control among the elements
	// matching Selectors.SolutionButton.
	RevealControl(html string) RevealControl

	// GateDismiss locates the control that dismisses the anti-cheat gate.
	// ok is false when no gate is rendered.
	GateDismiss(html string) (selector string, index int, ok bool)
}

// Viewer holds the rich-text fields shared by every exercise type.
type Viewer struct {
	Title        string
	Description  string
	Requirements []string
	Notes        []string
	Examples     []CodeBlock
	Rating       int
}

// Tab is one editor tab.
type Tab struct {
	Name   string
	Active bool
}

// RevealControl describes the solution reveal control of a page.
type RevealControl struct {
	// Found is false when the page has no reveal control.
	Found bool

	// Index addresses the control among Selectors.SolutionButton matches.
	Index int

	// Open is true when the control already reports the solution as shown.
	Open bool
}
