// Package script holds the JavaScript functions both browser drivers
// evaluate in the page. Every function takes a single Target argument and
// returns a JSON-serializable value.
package script

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/lessondump"
)

//go:embed page.js
var library string

// Functions evaluated in the page. Each is an arrow function of one Target.
var (
	Click         = function("click")
	Count         = function("count")
	Visible       = function("visible")
	Value         = function("value")
	DocumentText  = function("documentText")
	Metrics       = function("metrics")
	ScrollTo      = function("scrollTo")
	RenderedLines = function("renderedLines")
)

func function(name string) string {
	return fmt.Sprintf("(t) => (%s).%s(t)", library, name)
}

// Target addresses an element, and for editor functions the editor parts
// around it.
type Target struct {
	Selector string `json:"selector"`
	Index    int    `json:"index"`

	Root     string `json:"root,omitempty"`
	Scroller string `json:"scroller,omitempty"`
	Line     string `json:"line,omitempty"`
	MaxDepth int    `json:"maxDepth,omitempty"`
	Top      int    `json:"top,omitempty"`
}

// Element returns a Target for the element at index among selector matches.
func Element(selector string, index int) Target {
	return Target{Selector: selector, Index: index}
}

// EditorTarget returns a Target for the editor rooted at the element,
// resolving its parts with the registry's editor selectors.
func EditorTarget(selectors lessondump.Selectors, selector string, index int) Target {
	return Target{
		Selector: selector,
		Index:    index,
		Root:     selectors.EditorRoot,
		Scroller: selectors.EditorScroller,
		Line:     selectors.CodeLine,
	}
}

// DocumentResult is the value returned by DocumentText.
type DocumentResult struct {
	OK   bool   `json:"ok"`
	Text string `json:"text"`
}

// Call returns an expression applying fn to t, for drivers that evaluate
// plain expressions.
func Call(fn string, t Target) (string, error) {
	arg, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode script target: %w", err)
	}
	return fmt.Sprintf("(%s)(%s)", fn, arg), nil
}
