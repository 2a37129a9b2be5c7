package goquery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lessondump"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Dialogue flattens a transcript message. See dialogue for the algorithm.
func (n *Normalizer) Dialogue(htmlContent string) (string, []lessondump.CodeBlock) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", nil
	}
	return n.dialogue(doc.Find("body"))
}

// dialogue pulls every code block out of a clone of root before the text is
// whitespace-normalized, then puts the blocks back fenced. Code indentation
// and blank lines never pass through the normalization.
func (n *Normalizer) dialogue(root *goquery.Selection) (string, []lessondump.CodeBlock) {
	root = root.Clone()
	root.Find(n.selectors.Button).Remove()

	blocks := []lessondump.CodeBlock{}
	var placeholders []string

	root.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		code := pre.Find("code").First()
		if code.Length() == 0 || pre.ParentsFiltered("pre").Length() > 0 {
			return
		}
		placeholder := fmt.Sprintf("__CODE_BLOCK_%d__", len(blocks))
		blocks = append(blocks, lessondump.CodeBlock{
			Code:     strings.Trim(code.Text(), "\r\n"),
			Language: codeLanguage(code, lessondump.LanguageUnknown),
		})
		placeholders = append(placeholders, placeholder)
		pre.ReplaceWithNodes(placeholderNode(placeholder))
	})

	var b strings.Builder
	for _, node := range root.Nodes {
		flatten(node, &b)
	}
	text := cleanText(b.String())

	for i, block := range blocks {
		text = strings.Replace(text, placeholders[i], strings.Join(fence(block.Code, block.Language)[:3], "\n"), 1)
	}
	return text, blocks
}

// placeholderNode returns a block-level element holding placeholder, so the
// flattened text keeps the placeholder on a line of its own.
func placeholderNode(placeholder string) *html.Node {
	div := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	div.AppendChild(&html.Node{Type: html.TextNode, Data: placeholder})
	return div
}

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "blockquote": true, "pre": true,
	"table": true, "tr": true,
}

// flatten writes the text content of n, separating block elements with blank
// lines and honoring br.
func flatten(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			b.WriteString("\n")
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteString("\n\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, b)
	}
	if block {
		b.WriteString("\n\n")
	}
}

var (
	tripleBreaks  = regexp.MustCompile(`\n\s*\n\s*\n`)
	horizontalWS  = regexp.MustCompile(`[ \t]+`)
	excessBreaks  = regexp.MustCompile(`\n{3,}`)
	nbspSequences = strings.NewReplacer("\u00a0", " ", "\r\n", "\n")
)

// cleanText normalizes whitespace in flattened text.
func cleanText(s string) string {
	s = nbspSequences.Replace(s)
	s = tripleBreaks.ReplaceAllString(s, "\n\n")
	s = horizontalWS.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\n ", "\n")
	s = strings.ReplaceAll(s, " \n", "\n")
	s = excessBreaks.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
