package notion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/lessondump"
)

// TextLimit is the longest text placed in a single rich-text element. The
// API rejects elements above 2000 characters.
const TextLimit = 1900

// Footer closes every exported page.
const Footer = "Extracted with lessondump"

// Block is one child block of a page.
type Block struct {
	Object string `json:"object"`
	Type   string `json:"type"`

	Paragraph        *TextBody `json:"paragraph,omitempty"`
	Heading2         *TextBody `json:"heading_2,omitempty"`
	Heading3         *TextBody `json:"heading_3,omitempty"`
	NumberedListItem *TextBody `json:"numbered_list_item,omitempty"`
	BulletedListItem *TextBody `json:"bulleted_list_item,omitempty"`
	ToDo             *ToDo     `json:"to_do,omitempty"`
	Code             *Code     `json:"code,omitempty"`
	Divider          *struct{} `json:"divider,omitempty"`
}

// TextBody is the body shared by the plain text block types.
type TextBody struct {
	RichText []RichText `json:"rich_text"`
}

// ToDo is the body of a checkbox block.
type ToDo struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

// Code is the body of a code block.
type Code struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

// RichText is one text run.
type RichText struct {
	Type        string       `json:"type"`
	Text        Text         `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// Text holds the content of a text run.
type Text struct {
	Content string `json:"content"`
}

// Annotations styles a text run.
type Annotations struct {
	Italic bool `json:"italic,omitempty"`
}

// Text returns the concatenated content of the block.
func (b Block) Text() string {
	var runs []RichText
	switch {
	case b.Paragraph != nil:
		runs = b.Paragraph.RichText
	case b.Heading2 != nil:
		runs = b.Heading2.RichText
	case b.Heading3 != nil:
		runs = b.Heading3.RichText
	case b.NumberedListItem != nil:
		runs = b.NumberedListItem.RichText
	case b.BulletedListItem != nil:
		runs = b.BulletedListItem.RichText
	case b.ToDo != nil:
		runs = b.ToDo.RichText
	case b.Code != nil:
		runs = b.Code.RichText
	}
	var s strings.Builder
	for _, r := range runs {
		s.WriteString(r.Text.Content)
	}
	return s.String()
}

// richText splits s into runs of at most TextLimit characters.
func richText(s string) []RichText {
	chunks := lessondump.SplitText(s, TextLimit)
	runs := make([]RichText, 0, len(chunks))
	for _, c := range chunks {
		runs = append(runs, RichText{Type: "text", Text: Text{Content: c}})
	}
	return runs
}

func paragraph(s string) Block {
	return Block{Object: "block", Type: "paragraph", Paragraph: &TextBody{RichText: richText(s)}}
}

func heading2(s string) Block {
	return Block{Object: "block", Type: "heading_2", Heading2: &TextBody{RichText: richText(s)}}
}

func heading3(s string) Block {
	return Block{Object: "block", Type: "heading_3", Heading3: &TextBody{RichText: richText(s)}}
}

func numbered(s string) Block {
	return Block{Object: "block", Type: "numbered_list_item", NumberedListItem: &TextBody{RichText: richText(s)}}
}

func bulleted(s string) Block {
	return Block{Object: "block", Type: "bulleted_list_item", BulletedListItem: &TextBody{RichText: richText(s)}}
}

func todo(s string, checked bool) Block {
	return Block{Object: "block", Type: "to_do", ToDo: &ToDo{RichText: richText(s), Checked: checked}}
}

func code(s, language string) Block {
	return Block{Object: "block", Type: "code", Code: &Code{RichText: richText(s), Language: Language(language)}}
}

func divider() Block {
	return Block{Object: "block", Type: "divider", Divider: &struct{}{}}
}

var languages = map[string]string{
	"python":     "python",
	"javascript": "javascript",
	"typescript": "typescript",
	"go":         "go",
	"sql":        "sql",
	"c":          "c",
	"cpp":        "c++",
	"rust":       "rust",
	"java":       "java",
	"shell":      "shell",
	"bash":       "bash",
	"json":       "json",
	"yaml":       "yaml",
	"markdown":   "markdown",
	"html":       "html",
	"css":        "css",
}

// Language maps a language slug to the code block vocabulary of the API,
// "plain text" when it has no counterpart.
func Language(lang string) string {
	if l, ok := languages[strings.ToLower(lang)]; ok {
		return l
	}
	return "plain text"
}

// Blocks renders rec as page content.
func Blocks(rec *lessondump.ContentRecord) []Block {
	var blocks []Block

	if strings.TrimSpace(rec.Description) != "" {
		blocks = append(blocks, paragraph(rec.Description), divider())
	}
	if len(rec.Requirements) > 0 {
		blocks = append(blocks, heading2("Requirements"))
		for _, r := range rec.Requirements {
			blocks = append(blocks, numbered(r))
		}
	}
	if len(rec.Notes) > 0 {
		blocks = append(blocks, heading2("Notes"))
		for _, n := range rec.Notes {
			blocks = append(blocks, bulleted(n))
		}
	}
	if len(rec.Examples) > 0 {
		blocks = append(blocks, heading2("Examples"))
		for _, ex := range rec.Examples {
			blocks = append(blocks, code(ex.Code, orLanguage(ex.Language, rec.Language)))
		}
	}

	switch {
	case rec.Coding != nil:
		blocks = append(blocks, codingBlocks(rec)...)
	case rec.Interview != nil:
		blocks = append(blocks, interviewBlocks(rec.Interview)...)
	case rec.MultipleChoice != nil:
		blocks = append(blocks, multipleChoiceBlocks(rec.MultipleChoice)...)
	case rec.FreeText != nil:
		blocks = append(blocks, freeTextBlocks(rec.FreeText)...)
	case rec.CLI != nil:
		blocks = append(blocks, cliBlocks(rec.CLI)...)
	}

	if len(rec.Chats) > 0 {
		blocks = append(blocks, heading2("Chats"))
		for _, chat := range rec.Chats {
			blocks = append(blocks, heading3(chat.Title))
			for _, m := range chat.Messages {
				blocks = append(blocks, paragraph(fmt.Sprintf("%s: %s", m.Speaker, m.Content)))
			}
		}
	}

	footer := paragraph(Footer)
	footer.Paragraph.RichText[0].Annotations = &Annotations{Italic: true}
	return append(blocks, divider(), footer)
}

func codingBlocks(rec *lessondump.ContentRecord) []Block {
	var blocks []Block
	if len(rec.Coding.Files) > 0 {
		blocks = append(blocks, heading2("Code Files"))
		for _, f := range rec.Coding.Files {
			blocks = append(blocks, heading3(f.FileName), code(f.Code, orLanguage(f.Language, rec.Language)))
		}
	}
	if available(rec.Coding.Solution) {
		blocks = append(blocks, heading2("Official Solution"), code(rec.Coding.Solution, rec.Language))
	}
	return blocks
}

func interviewBlocks(iv *lessondump.Interview) []Block {
	var blocks []Block
	if len(iv.Messages) > 0 {
		blocks = append(blocks, heading2("Interview Transcript"))
		for _, m := range iv.Messages {
			blocks = append(blocks, heading3(string(m.Speaker)))
			blocks = append(blocks, messageBlocks(m.Content)...)
		}
	}
	switch {
	case len(iv.ExpectedPoints) > 0:
		blocks = append(blocks, heading2("Official Solution"))
		for _, p := range iv.ExpectedPoints {
			blocks = append(blocks, numbered(p.Point))
		}
	case available(iv.Solution):
		blocks = append(blocks, heading2("Official Solution"), paragraph(iv.Solution))
	}
	return blocks
}

func multipleChoiceBlocks(mc *lessondump.MultipleChoice) []Block {
	var blocks []Block
	if mc.Question != "" {
		blocks = append(blocks, heading2("Question"), paragraph(mc.Question))
	}
	if len(mc.Options) > 0 {
		blocks = append(blocks, heading2("Options"))
		for _, o := range mc.Options {
			blocks = append(blocks, todo(o.Text, o.IsSelected))
		}
	}
	return blocks
}

func freeTextBlocks(ft *lessondump.FreeText) []Block {
	var blocks []Block
	if ft.UserAnswer != "" {
		blocks = append(blocks, heading2("Your Answer"), paragraph(ft.UserAnswer))
	}
	if len(ft.Checks) > 0 {
		blocks = append(blocks, heading2("Checks"))
		for _, c := range ft.Checks {
			text := c.Description
			if len(c.ExpectedValues) > 0 {
				text += ": " + strings.Join(c.ExpectedValues, ", ")
			}
			blocks = append(blocks, bulleted(text))
		}
	}
	return blocks
}

func cliBlocks(cli *lessondump.CLI) []Block {
	var blocks []Block
	if cli.Instructions != "" {
		blocks = append(blocks, heading2("Instructions"), paragraph(cli.Instructions))
	}
	var commands []string
	if cli.RunCommand != "" {
		commands = append(commands, cli.RunCommand)
	}
	if cli.SubmitCommand != "" {
		commands = append(commands, cli.SubmitCommand)
	}
	if len(commands) > 0 {
		blocks = append(blocks, heading2("Commands"), code(strings.Join(commands, "\n"), "shell"))
	}
	if len(cli.Checks) > 0 {
		blocks = append(blocks, heading2("Checks"))
		for _, c := range cli.Checks {
			blocks = append(blocks, code(c.Command, "shell"))
			for _, e := range c.Expectations {
				blocks = append(blocks, bulleted(e))
			}
		}
	}
	return blocks
}

var fenced = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)\\n?```")

// messageBlocks splits a transcript message into paragraphs and code
// blocks in reading order.
func messageBlocks(content string) []Block {
	var blocks []Block
	last := 0
	for _, m := range fenced.FindAllStringSubmatchIndex(content, -1) {
		if text := strings.TrimSpace(content[last:m[0]]); text != "" {
			blocks = append(blocks, paragraph(text))
		}
		blocks = append(blocks, code(content[m[4]:m[5]], content[m[2]:m[3]]))
		last = m[1]
	}
	if text := strings.TrimSpace(content[last:]); text != "" {
		blocks = append(blocks, paragraph(text))
	}
	return blocks
}

func orLanguage(lang, fallback string) string {
	if lang == "" || lang == lessondump.LanguageUnknown {
		return fallback
	}
	return lang
}

// available reports whether s is solution content rather than empty or a
// sentinel.
func available(s string) bool {
	return strings.TrimSpace(s) != "" &&
		s != lessondump.SolutionNotAvailable &&
		s != lessondump.InterviewSolutionNotAvailable &&
		s != lessondump.SolutionExtractionFailed
}
