package goquery

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lessondump"
	"golang.org/x/net/html"
)

// Ensure Normalizer implements lessondump.Normalizer at compile time.
var _ lessondump.Normalizer = (*Normalizer)(nil)

var (
	languageClass = regexp.MustCompile(`language-(\w+)`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Normalizer converts rich-text regions to markdown. Inline content of
// paragraphs and list items goes through the Converter so emphasis, bold,
// code spans and links survive.
type Normalizer struct {
	selectors lessondump.Selectors
	converter lessondump.Converter

	// Indent is the number of spaces added per list nesting level.
	Indent int
}

// NewNormalizer creates a Normalizer. A nil converter falls back to plain
// text for inline content.
func NewNormalizer(selectors lessondump.Selectors, converter lessondump.Converter) *Normalizer {
	return &Normalizer{
		selectors: selectors,
		converter: converter,
		Indent:    lessondump.DefaultExtractionConfig().IndentSpaces,
	}
}

// Markdown converts an HTML fragment. The top-level elements of the fragment
// are walked in order.
func (n *Normalizer) Markdown(htmlContent string, defaultLanguage string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}
	return n.markdown(doc.Find("body"), defaultLanguage)
}

// markdown converts the children of root. root is cloned first; the caller's
// tree is never modified.
func (n *Normalizer) markdown(root *goquery.Selection, defaultLanguage string) string {
	root = root.Clone()
	root.Find(n.selectors.Button).Remove()
	root.Find(n.selectors.DecorativeIcon).Remove()
	root.Find(n.selectors.Title).First().Remove()

	var lines []string
	n.walk(root, defaultLanguage, &lines)

	out := strings.Join(lines, "\n")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

func (n *Normalizer) walk(parent *goquery.Selection, defaultLanguage string, lines *[]string) {
	parent.Children().Each(func(_ int, el *goquery.Selection) {
		tag := goquery.NodeName(el)

		if n.isCallout(el) {
			if text := n.callout(el); text != "" {
				*lines = append(*lines, text, "")
			}
			return
		}

		switch tag {
		case "h2", "h3", "h4":
			if text := cleanInline(el.Text()); text != "" {
				level, _ := strconv.Atoi(tag[1:])
				*lines = append(*lines, strings.Repeat("#", level)+" "+text, "")
			}
		case "p":
			if text := n.inline(el); text != "" {
				*lines = append(*lines, text, "")
			}
		case "ul", "ol":
			*lines = append(*lines, n.list(el, "")...)
			*lines = append(*lines, "")
		case "pre":
			if code := el.Find("code").First(); code.Length() > 0 {
				*lines = append(*lines, fencedBlock(code, defaultLanguage)...)
			} else if text := strings.Trim(el.Text(), "\r\n"); text != "" {
				*lines = append(*lines, fence(text, defaultLanguage)...)
			}
		case "div", "section", "article", "figure":
			if code := el.ChildrenFiltered("code").First(); code.Length() > 0 {
				*lines = append(*lines, fencedBlock(code, defaultLanguage)...)
				return
			}
			if el.ChildrenFiltered(blockSelector).Length() == 0 {
				if text := cleanInline(n.inline(el)); text != "" {
					*lines = append(*lines, text, "")
				}
				return
			}
			n.walk(el, defaultLanguage, lines)
		case "img":
			if img := image(el); img != "" {
				*lines = append(*lines, img, "")
			}
		case "video", "iframe":
			*lines = append(*lines, embed(el)...)
		}
	})
}

// list flattens a ul or ol into lines. Nested lists are indented one level
// deeper and ordered lists number from 1 at every level.
func (n *Normalizer) list(list *goquery.Selection, indent string) []string {
	ordered := goquery.NodeName(list) == "ol"

	var lines []string
	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		marker := "- "
		if ordered {
			marker = strconv.Itoa(i+1) + ". "
		}

		body := li.Clone()
		body.ChildrenFiltered("ul, ol").Remove()
		if text := cleanInline(n.inline(body)); text != "" {
			lines = append(lines, indent+marker+text)
		}

		li.ChildrenFiltered("ul, ol").Each(func(_ int, nested *goquery.Selection) {
			lines = append(lines, n.list(nested, indent+strings.Repeat(" ", max(n.Indent, 0)))...)
		})
	})
	return lines
}

// inline returns the markdown of el's inline content.
func (n *Normalizer) inline(el *goquery.Selection) string {
	if n.converter != nil {
		if h, err := el.Html(); err == nil && strings.TrimSpace(h) != "" {
			if md, err := n.converter.Convert(h); err == nil {
				return md
			}
		}
	}
	return cleanInline(el.Text())
}

// blockSelector matches the children that make a div a wrapper to walk into.
// A div without any holds inline content only.
const blockSelector = "p, div, section, article, figure, ul, ol, pre, h2, h3, h4, img, video, iframe, blockquote, table"

// calloutBlocks are descendants that mark a bordered div as a section
// wrapper rather than a callout.
const calloutBlocks = "h2, h3, h4, ul, ol, pre"

// isCallout reports whether el is an explicit callout, or a bordered box
// with its icon up front and only inline content.
func (n *Normalizer) isCallout(el *goquery.Selection) bool {
	if el.Is(n.selectors.Callout) {
		return true
	}
	if !el.Is(n.selectors.BorderedBox) || el.Find(calloutBlocks).Length() > 0 {
		return false
	}
	if el.ChildrenFiltered(n.selectors.CalloutIcon).Length() > 0 {
		return true
	}
	first := el.Children().First()
	return first.Find(n.selectors.CalloutIcon).Length() > 0
}

// callout renders a callout as a two-column table pairing its icon with its
// text, or as a blockquote when it has no icon.
func (n *Normalizer) callout(el *goquery.Selection) string {
	icon := el.Find(n.selectors.CalloutIcon).First()

	body := el.Clone()
	body.Find(n.selectors.CalloutIcon).Remove()
	text := n.inline(body)

	src, hasSrc := icon.Attr("src")
	if icon.Length() == 0 || !hasSrc || src == "" {
		if text == "" {
			return ""
		}
		quoted := strings.Split(text, "\n")
		for i, line := range quoted {
			quoted[i] = strings.TrimRight("> "+line, " ")
		}
		return strings.Join(quoted, "\n")
	}

	alt, _ := icon.Attr("alt")
	return fmt.Sprintf(
		`<table><tr><td width="48"><img src="%s" alt="%s" width="40"></td><td>%s</td></tr></table>`,
		html.EscapeString(src), html.EscapeString(alt), strings.ReplaceAll(text, "\n\n", "<br><br>"),
	)
}

func image(el *goquery.Selection) string {
	src, ok := el.Attr("src")
	if !ok || src == "" {
		return ""
	}
	alt, _ := el.Attr("alt")
	return "![" + alt + "](" + src + ")"
}

// embed re-emits a video or iframe as a raw tag followed by a plain link for
// renderers that drop embedded media.
func embed(el *goquery.Selection) []string {
	src, _ := el.Attr("src")
	if src == "" {
		src, _ = el.Find("source").First().Attr("src")
	}
	if src == "" {
		return nil
	}
	raw, err := goquery.OuterHtml(el)
	if err != nil {
		return nil
	}
	return []string{raw, "", "[Watch video](" + src + ")", ""}
}

func fencedBlock(code *goquery.Selection, defaultLanguage string) []string {
	text := strings.Trim(code.Text(), "\r\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return fence(text, codeLanguage(code, defaultLanguage))
}

func fence(code, language string) []string {
	if language == lessondump.LanguageUnknown {
		language = ""
	}
	return []string{"```" + language, code, "```", ""}
}

// codeLanguage reads the language-xxx class of a code element, falling back
// to defaultLanguage when the element carries none.
func codeLanguage(code *goquery.Selection, defaultLanguage string) string {
	class, _ := code.Attr("class")
	if m := languageClass.FindStringSubmatch(class); m != nil {
		return lessondump.NormalizeLanguage(m[1])
	}
	return defaultLanguage
}

var spaceRuns = regexp.MustCompile(`\s+`)

func cleanInline(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}
