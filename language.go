package lessondump

import (
	"net/url"
	"path"
	"strings"
)

// LanguageUnknown is the sentinel for an undetermined language.
const LanguageUnknown = "unknown"

// languageExtensions maps every known language to its file extension.
// Its keys are the closed vocabulary of ContentRecord.Language.
var languageExtensions = map[string]string{
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"go":         "go",
	"sql":        "sql",
	"c":          "c",
	"cpp":        "cpp",
	"rust":       "rs",
	"java":       "java",
	"shell":      "sh",
	"bash":       "sh",
	"json":       "json",
	"yaml":       "yaml",
	"markdown":   "md",
	"html":       "html",
	"css":        "css",
	"xml":        "xml",
}

var extensionLanguages = map[string]string{
	"py":       "python",
	"js":       "javascript",
	"jsx":      "javascript",
	"mjs":      "javascript",
	"ts":       "typescript",
	"tsx":      "typescript",
	"go":       "go",
	"sql":      "sql",
	"c":        "c",
	"h":        "c",
	"cpp":      "cpp",
	"cc":       "cpp",
	"cxx":      "cpp",
	"hpp":      "cpp",
	"hxx":      "cpp",
	"rs":       "rust",
	"java":     "java",
	"sh":       "shell",
	"bash":     "bash",
	"zsh":      "shell",
	"json":     "json",
	"yaml":     "yaml",
	"yml":      "yaml",
	"md":       "markdown",
	"markdown": "markdown",
	"html":     "html",
	"htm":      "html",
	"css":      "css",
	"xml":      "xml",
}

var languageAliases = map[string]string{
	"py":      "python",
	"python3": "python",
	"js":      "javascript",
	"ts":      "typescript",
	"golang":  "go",
	"c++":     "cpp",
	"rs":      "rust",
	"sh":      "shell",
	"zsh":     "shell",
	"console": "shell",
	"yml":     "yaml",
	"md":      "markdown",
}

// NormalizeLanguage maps a language name or alias onto the closed vocabulary.
// Unrecognized names map to LanguageUnknown.
func NormalizeLanguage(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := languageExtensions[name]; ok {
		return name
	}
	if lang, ok := languageAliases[name]; ok {
		return lang
	}
	return LanguageUnknown
}

// LanguageFromFilename infers a language from a filename extension.
// ok is false when the extension is not recognized.
func LanguageFromFilename(filename string) (lang string, ok bool) {
	ext := strings.TrimPrefix(path.Ext(strings.TrimSpace(filename)), ".")
	if ext == "" {
		return LanguageUnknown, false
	}
	lang, ok = extensionLanguages[strings.ToLower(ext)]
	if !ok {
		return LanguageUnknown, false
	}
	return lang, true
}

// FileExtension returns the file extension for a language, "txt" if unknown.
func FileExtension(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(language)]; ok {
		return ext
	}
	return "txt"
}

var displayNames = map[string]string{
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"cpp":        "C++",
	"sql":        "SQL",
	"html":       "HTML",
	"css":        "CSS",
	"json":       "JSON",
	"yaml":       "YAML",
	"xml":        "XML",
	"unknown":    "Unknown",
}

// LanguageDisplayName returns a capitalized name suitable for headings.
func LanguageDisplayName(language string) string {
	lower := strings.ToLower(language)
	if name, ok := displayNames[lower]; ok {
		return name
	}
	if lower == "" {
		return "Unknown"
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// courseLanguages is checked in order; longer course slugs come before their
// prefixes so that /learn-cpp is not taken for /learn-c.
var courseLanguages = []struct {
	slug string
	lang string
}{
	{"learn-python", "python"},
	{"learn-javascript", "javascript"},
	{"learn-typescript", "typescript"},
	{"learn-golang", "go"},
	{"learn-go", "go"},
	{"learn-sql", "sql"},
	{"learn-cpp", "cpp"},
	{"learn-c", "c"},
	{"learn-rust", "rust"},
	{"learn-java", "java"},
	{"learn-shell", "shell"},
}

var titleLanguages = []struct {
	word string
	lang string
}{
	{"python", "python"},
	{"javascript", "javascript"},
	{"typescript", "typescript"},
	{"golang", "go"},
	{"go ", "go"},
	{"sql", "sql"},
	{"rust", "rust"},
	{"java", "java"},
}

// DetectLanguage infers the primary language of a page from its URL path
// segments, then from the document title. Returns LanguageUnknown when
// neither gives a signal.
func DetectLanguage(rawURL, documentTitle string) string {
	if u, err := url.Parse(rawURL); err == nil {
		for _, segment := range strings.Split(strings.ToLower(u.Path), "/") {
			for _, c := range courseLanguages {
				if segment == c.slug {
					return c.lang
				}
			}
		}
	}

	title := strings.ToLower(documentTitle)
	for _, t := range titleLanguages {
		if strings.Contains(title, t.word) {
			return t.lang
		}
	}
	return LanguageUnknown
}

// ContentTypeFromURL classifies a URL as a challenge or lesson page.
// ok is false when the URL is not an exercise page of the host site.
func ContentTypeFromURL(rawURL string) (ContentType, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host != SiteHost && !strings.HasSuffix(host, "."+SiteHost) {
		return "", false
	}
	switch {
	case strings.Contains(u.Path, "/challenges/"):
		return ContentChallenge, true
	case strings.Contains(u.Path, "/lessons/"):
		return ContentLesson, true
	}
	return "", false
}

// SiteHost is the host serving exercise pages.
const SiteHost = "boot.dev"
