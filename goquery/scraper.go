package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lessondump"
)

// Ensure Scraper implements lessondump.Scraper at compile time.
var _ lessondump.Scraper = (*Scraper)(nil)

// maxRating is the number of stars in the rating widget.
const maxRating = 5

// Scraper reads exercise fields from page snapshots.
type Scraper struct {
	selectors  lessondump.Selectors
	normalizer *Normalizer
}

// NewScraper creates a Scraper that renders rich text with normalizer.
func NewScraper(selectors lessondump.Selectors, normalizer *Normalizer) *Scraper {
	return &Scraper{selectors: selectors, normalizer: normalizer}
}

func parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// The HTML5 parser only fails on reader errors, which a string
		// reader never returns.
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

// Viewer reads title, description, requirements, notes, examples and
// rating. The description keeps code blocks; examples repeats them in
// document order.
func (s *Scraper) Viewer(html string, language string) lessondump.Viewer {
	doc := parse(html)

	v := lessondump.Viewer{
		Requirements: []string{},
		Notes:        []string{},
		Examples:     []lessondump.CodeBlock{},
		Rating:       min(doc.Find(s.selectors.RatingFilledStar).Length(), maxRating),
	}

	viewer := doc.Find(s.selectors.Viewer).First()
	if viewer.Length() == 0 {
		return v
	}

	v.Title = cleanInline(viewer.Find(s.selectors.Title).First().Text())
	v.Description = s.normalizer.markdown(viewer, language)
	v.Requirements = s.topLevelItems(viewer, "ol")
	v.Notes = s.topLevelItems(viewer, "ul")

	viewer.Find(s.selectors.CodeBlock).Each(func(_ int, code *goquery.Selection) {
		text := strings.Trim(code.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			return
		}
		v.Examples = append(v.Examples, lessondump.CodeBlock{
			Code:     text,
			Language: codeLanguage(code, language),
		})
	})

	return v
}

// topLevelItems returns the plain text of the items of every list of the
// given tag that is not nested inside another list item.
func (s *Scraper) topLevelItems(root *goquery.Selection, tag string) []string {
	items := []string{}
	root.Find(tag).
		FilterFunction(func(_ int, list *goquery.Selection) bool {
			return list.ParentsFiltered("li").Length() == 0
		}).
		Each(func(_ int, list *goquery.Selection) {
			list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				body := li.Clone()
				body.Find("ul, ol").Remove()
				if text := cleanInline(body.Text()); text != "" {
					items = append(items, text)
				}
			})
		})
	return items
}

// Tabs lists editor tabs; Active follows aria-selected.
func (s *Scraper) Tabs(html string) []lessondump.Tab {
	tabs := []lessondump.Tab{}
	parse(html).Find(s.selectors.TabButton).Each(func(_ int, btn *goquery.Selection) {
		selected, _ := btn.Attr("aria-selected")
		tabs = append(tabs, lessondump.Tab{
			Name:   cleanInline(btn.Text()),
			Active: selected == "true",
		})
	})
	return tabs
}

// messageContainers finds the innermost elements inside root that hold both
// a profile image and a rich-text viewer and are laid out as a grid.
func (s *Scraper) messageContainers(root *goquery.Selection) []*goquery.Selection {
	isContainer := func(div *goquery.Selection) bool {
		class, _ := div.Attr("class")
		return strings.Contains(class, "grid") &&
			div.Find(s.selectors.ProfileImage).Length() > 0 &&
			div.Find(s.selectors.Viewer).Length() > 0
	}

	var containers []*goquery.Selection
	root.Find("div").Each(func(_ int, div *goquery.Selection) {
		if !isContainer(div) {
			return
		}
		nested := false
		div.Find("div").EachWithBreak(func(_ int, inner *goquery.Selection) bool {
			nested = isContainer(inner)
			return !nested
		})
		if !nested {
			containers = append(containers, div)
		}
	})
	return containers
}

// InterviewMessages reads the transcript. Speakers strictly alternate by
// container position, starting with Boots. The page carries no per-message
// authorship marker, so this is unverified.
func (s *Scraper) InterviewMessages(html string) []lessondump.InterviewMessage {
	messages := []lessondump.InterviewMessage{}

	side := parse(html).Find(s.selectors.InterviewSide).First()
	if side.Length() == 0 {
		return messages
	}

	for i, container := range s.messageContainers(side) {
		speaker := lessondump.SpeakerUser
		if i%2 == 0 {
			speaker = lessondump.SpeakerBoots
		}

		content, blocks := s.normalizer.dialogue(container.Find(s.selectors.Viewer).First())
		if content == "" {
			continue
		}
		messages = append(messages, lessondump.InterviewMessage{
			Index:      i + 1,
			Speaker:    speaker,
			Content:    content,
			CodeBlocks: blocks,
		})
	}
	return messages
}

// InterviewSolution reads the criteria box shown once the solution is
// revealed: the innermost bordered box mentioning what is expected.
func (s *Scraper) InterviewSolution(html string) ([]lessondump.ExpectedPoint, string, bool) {
	side := parse(html).Find(s.selectors.InterviewSide).First()
	if side.Length() == 0 {
		return nil, "", false
	}

	box := s.criteriaBox(side)
	if box == nil {
		return nil, "", false
	}

	points := []lessondump.ExpectedPoint{}
	box.Find("li").Each(func(i int, li *goquery.Selection) {
		if text := cleanInline(li.Text()); text != "" {
			points = append(points, lessondump.ExpectedPoint{Index: len(points) + 1, Point: text})
		}
	})
	return points, s.normalizer.markdown(box, lessondump.LanguageUnknown), true
}

func (s *Scraper) criteriaBox(root *goquery.Selection) *goquery.Selection {
	isCriteria := func(div *goquery.Selection) bool {
		text := strings.ToLower(div.Text())
		return strings.Contains(text, "expecting") || strings.Contains(text, "point")
	}

	var found *goquery.Selection
	root.Find(s.selectors.BorderedBox).EachWithBreak(func(_ int, div *goquery.Selection) bool {
		if !isCriteria(div) {
			return true
		}
		if div.Find(s.selectors.BorderedBox).FilterFunction(func(_ int, inner *goquery.Selection) bool {
			return isCriteria(inner)
		}).Length() > 0 {
			return true
		}
		found = div
		return false
	})
	return found
}

// MultipleChoice reads the question and options. An option is selected
// when it, or an element inside it, carries the ring highlight.
func (s *Scraper) MultipleChoice(html string) *lessondump.MultipleChoice {
	doc := parse(html)
	if doc.Find(s.selectors.MultipleChoiceContainer).Length() == 0 {
		return nil
	}

	mc := &lessondump.MultipleChoice{Options: []lessondump.Option{}}

	doc.Find(s.selectors.MultipleChoiceQuestion).
		FilterFunction(func(_ int, el *goquery.Selection) bool {
			return el.ParentsFiltered(s.selectors.Button).Length() == 0
		}).
		EachWithBreak(func(_ int, el *goquery.Selection) bool {
			mc.Question = cleanInline(el.Text())
			return mc.Question == ""
		})

	doc.Find(s.selectors.MultipleChoiceOption).Each(func(i int, btn *goquery.Selection) {
		selected := btn.Is(s.selectors.MultipleChoiceSelected) ||
			btn.Find(s.selectors.MultipleChoiceSelected).Length() > 0
		opt := lessondump.Option{
			Index:      i + 1,
			Text:       cleanInline(btn.Text()),
			IsSelected: selected,
		}
		mc.Options = append(mc.Options, opt)
		if selected && mc.SelectedAnswer == nil {
			index := opt.Index
			mc.SelectedAnswer = &index
		}
	})

	return mc
}

// FreeText reads the rendered checks. ChecksVisible is false when the
// checks are hidden behind their toggle; the checks are then unknown, not
// empty.
func (s *Scraper) FreeText(html string) *lessondump.FreeText {
	doc := parse(html)

	ft := &lessondump.FreeText{
		UserAnswer: doc.Find(s.selectors.FreeTextInput).First().Text(),
		Checks:     []lessondump.FreeTextCheck{},
	}

	list := doc.Find(s.selectors.FreeTextChecks).First()
	if list.Length() == 0 {
		return ft
	}
	ft.ChecksVisible = true

	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		body := li.Clone()
		body.Find("ul, ol").Remove()

		check := lessondump.FreeTextCheck{
			Description:    cleanInline(body.Text()),
			ExpectedValues: []string{},
		}
		li.Find("ul li, ol li").Each(func(_ int, v *goquery.Selection) {
			if text := cleanInline(v.Text()); text != "" {
				check.ExpectedValues = append(check.ExpectedValues, text)
			}
		})
		if len(check.ExpectedValues) == 0 {
			body.Find("code").Each(func(_ int, v *goquery.Selection) {
				if text := cleanInline(v.Text()); text != "" {
					check.ExpectedValues = append(check.ExpectedValues, text)
				}
			})
		}
		ft.Checks = append(ft.Checks, check)
	})
	return ft
}

// CLI reads the run and submit commands (first and second command
// containers), the instruction paragraphs around them and the checks list.
func (s *Scraper) CLI(html string) *lessondump.CLI {
	doc := parse(html)

	cli := &lessondump.CLI{Checks: []lessondump.CLICheck{}}

	commands := doc.Find(s.selectors.CLICommand)
	cli.RunCommand = cleanInline(commands.Eq(0).Text())
	cli.SubmitCommand = cleanInline(commands.Eq(1).Text())

	if commands.Length() > 0 {
		var paragraphs []string
		commands.First().Parent().Children().Filter("p").Not(s.selectors.CLICommand).Each(func(_ int, p *goquery.Selection) {
			if text := s.normalizer.inline(p); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		cli.Instructions = strings.Join(paragraphs, "\n\n")
	}

	doc.Find(s.selectors.CLIChecksList).First().ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		check := lessondump.CLICheck{
			Command:      cleanInline(li.Find(s.selectors.CLICheckCommand).First().Text()),
			Expectations: []string{},
		}
		if check.Command == "" {
			body := li.Clone()
			body.Find("ul, ol").Remove()
			check.Command = cleanInline(body.Text())
		}
		li.Find(s.selectors.CLICheckExpected).Find("li").Each(func(_ int, e *goquery.Selection) {
			if text := cleanInline(e.Text()); text != "" {
				check.Expectations = append(check.Expectations, text)
			}
		})
		cli.Checks = append(cli.Checks, check)
	})

	return cli
}

// ChatTitles lists the chat buttons in on-page order.
func (s *Scraper) ChatTitles(html string) []string {
	titles := []string{}
	parse(html).Find(s.selectors.ChatButton).Each(func(_ int, btn *goquery.Selection) {
		titles = append(titles, cleanInline(btn.Text()))
	})
	return titles
}

// ChatMessages reads the open chat panel: the last chat container holding
// message grids. Messages carrying the Boots avatar are Boots', the rest the
// user's.
func (s *Scraper) ChatMessages(html string) []lessondump.ChatMessage {
	messages := []lessondump.ChatMessage{}

	panel := parse(html).Find(s.selectors.ChatContainer).FilterFunction(func(_ int, c *goquery.Selection) bool {
		return c.Find(s.selectors.ChatMessageGrid).Length() > 0
	}).Last()
	if panel.Length() == 0 {
		return messages
	}

	panel.Find(s.selectors.ChatMessageGrid).Each(func(_ int, grid *goquery.Selection) {
		viewer := grid.Find(s.selectors.ChatViewer).First()
		if viewer.Length() == 0 {
			return
		}
		content, blocks := s.normalizer.dialogue(viewer)
		if content == "" {
			return
		}
		speaker := lessondump.SpeakerUser
		if grid.Find(s.selectors.ChatProfileImage).Length() > 0 {
			speaker = lessondump.SpeakerBoots
		}
		messages = append(messages, lessondump.ChatMessage{
			Speaker: speaker,
			Content: content,
			HasCode: len(blocks) > 0,
		})
	})
	return messages
}

// RevealControl finds the first button whose text names the solution. It is
// open when its label offers to hide the solution or its pressed/state
// attributes report it active.
func (s *Scraper) RevealControl(html string) lessondump.RevealControl {
	var rc lessondump.RevealControl
	parse(html).Find(s.selectors.SolutionButton).EachWithBreak(func(i int, btn *goquery.Selection) bool {
		text := btn.Text()
		if !strings.Contains(text, s.selectors.SolutionButtonText) {
			return true
		}
		pressed, _ := btn.Attr("aria-pressed")
		state, _ := btn.Attr("data-state")
		rc = lessondump.RevealControl{
			Found: true,
			Index: i,
			Open: strings.Contains(text, "Hide") ||
				pressed == "true" ||
				state == "active" || state == "on" || state == "open",
		}
		return false
	})
	return rc
}

// GateDismiss prefers the gate's cancel button over its close icon. The
// returned selector is empty when a gate is shown without either.
func (s *Scraper) GateDismiss(html string) (string, int, bool) {
	doc := parse(html)
	if doc.Find(s.selectors.GateDialog).Length() == 0 {
		return "", 0, false
	}

	cancel := -1
	doc.Find(s.selectors.GateButton).EachWithBreak(func(i int, btn *goquery.Selection) bool {
		if strings.Contains(btn.Text(), s.selectors.GateCancelText) {
			cancel = i
			return false
		}
		return true
	})
	if cancel >= 0 {
		return s.selectors.GateButton, cancel, true
	}
	if doc.Find(s.selectors.GateClose).Length() > 0 {
		return s.selectors.GateClose, 0, true
	}
	return "", 0, true
}
