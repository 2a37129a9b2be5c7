package lessondump

// Selectors is the registry of every structural assumption about the host
// page's markup. When the site changes its markup, this is the only place
// that needs to change.
//
// All values are CSS selectors understood by both the browser
// (querySelectorAll) and goquery, so an element's index in a snapshot
// matches its index in the live page.
type Selectors struct {
	// Rich-text regions.
	Viewer           string
	Title            string
	CodeBlock        string
	Callout          string
	CalloutIcon      string
	DecorativeIcon   string
	Button           string
	RatingFilledStar string

	// Code editors.
	CodeEditor     string
	EditorRoot     string
	EditorScroller string
	CodeLine       string
	MergeView      string
	MergeEditor    string
	TabButton      string

	// Interview.
	InterviewSide string
	ProfileImage  string
	BorderedBox   string

	// Solution reveal and the anti-cheat gate.
	SolutionButton     string
	SolutionButtonText string
	GateDialog         string
	GateButton         string
	GateCancelText     string
	GateClose          string

	// Free text.
	FreeTextInput  string
	FreeTextChecks string

	// Multiple choice.
	MultipleChoiceContainer string
	MultipleChoiceQuestion  string
	MultipleChoiceOption    string
	MultipleChoiceSelected  string

	// CLI.
	CLICommand       string
	CLIChecksList    string
	CLICheckCommand  string
	CLICheckExpected string

	// Side-channel chats.
	ChatButton       string
	ChatContainer    string
	ChatMessageGrid  string
	ChatViewer       string
	ChatProfileImage string
}

// DefaultSelectors returns the selectors matching the current site markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Viewer:           ".viewer",
		Title:            "h1",
		CodeBlock:        "pre code",
		Callout:          `blockquote, .callout, [role="note"]`,
		CalloutIcon:      "img",
		DecorativeIcon:   "svg, .lucide",
		Button:           "button",
		RatingFilledStar: `svg.lucide-star[class*="fill-yellow"]`,

		CodeEditor:     `.cm-content[role="textbox"]`,
		EditorRoot:     ".cm-editor, .CodeMirror",
		EditorScroller: ".cm-scroller, .CodeMirror-scroll",
		CodeLine:       ".CodeMirror-line, .cm-line",
		MergeView:      ".cm-mergeView",
		MergeEditor:    ".cm-mergeView .cm-mergeViewEditor .cm-editor",
		TabButton:      `ul[role="tablist"] button`,

		InterviewSide: "#interview-side",
		ProfileImage:  "img",
		BorderedBox:   `div[class*="border"]`,

		SolutionButton:     "button",
		SolutionButtonText: "Solution",
		GateDialog:         `[role="dialog"]`,
		GateButton:         `[role="dialog"] button`,
		GateCancelText:     "Cancel",
		GateClose:          `[role="dialog"] button[aria-label="Close"], [role="dialog"] button:has(.lucide-x)`,

		FreeTextInput:  `textarea[aria-label="Lesson answer"]`,
		FreeTextChecks: "ol.list-inside.list-decimal",

		MultipleChoiceContainer: ".viewer-mcq",
		MultipleChoiceQuestion:  ".viewer-mcq h2, .viewer-mcq h3, .viewer-mcq p",
		MultipleChoiceOption:    ".viewer-mcq button",
		MultipleChoiceSelected:  ".ring, .ring-1, .ring-2, .ring-4",

		CLICommand:       "p.font-mono",
		CLIChecksList:    "ol.list-inside.list-decimal",
		CLICheckCommand:  "span.font-mono.font-bold",
		CLICheckExpected: "ul.ml-4.list-inside.list-disc",

		ChatButton:       `button.rounded-full.border.px-2\.5.py-1`,
		ChatContainer:    ".pb-4",
		ChatMessageGrid:  `.grid.grid-cols-\[50px_minmax\(0\,1fr\)\]`,
		ChatViewer:       ".viewer",
		ChatProfileImage: `img[alt="Boots"]`,
	}
}
