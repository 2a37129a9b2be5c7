package lessondump

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into inline Markdown, keeping
	// emphasis, bold, code spans and links.
	Convert(html string) (string, error)
}
