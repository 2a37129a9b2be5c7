package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lessondump"
)

// Ensure Classifier implements lessondump.Classifier at compile time.
var _ lessondump.Classifier = (*Classifier)(nil)

// Classifier picks the exercise type of a page from structural markers.
// Some pages carry several superficially matching markers, so the checks run
// from the most specific marker to the least.
type Classifier struct {
	selectors lessondump.Selectors
}

// NewClassifier creates a new Classifier.
func NewClassifier(selectors lessondump.Selectors) *Classifier {
	return &Classifier{selectors: selectors}
}

// Classify returns the exercise type of the page. Unparseable input is
// classified as coding.
func (c *Classifier) Classify(html string) lessondump.ExerciseType {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return lessondump.ExerciseCoding
	}

	has := func(selector string) bool {
		return doc.Find(selector).Length() > 0
	}

	editor := has(c.selectors.CodeEditor)
	interview := has(c.selectors.InterviewSide)
	multipleChoice := has(c.selectors.MultipleChoiceContainer)
	freeText := has(c.selectors.FreeTextInput)
	command := has(c.selectors.CLICommand)

	switch {
	case command && !editor && !interview && !multipleChoice && !freeText:
		return lessondump.ExerciseCLI
	case freeText:
		return lessondump.ExerciseFreeText
	case multipleChoice:
		return lessondump.ExerciseMultipleChoice
	case interview && !editor:
		return lessondump.ExerciseInterview
	}
	return lessondump.ExerciseCoding
}
