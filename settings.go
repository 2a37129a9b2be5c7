package lessondump

import "strings"

// ExportFormat identifies an output serialization.
type ExportFormat string

// ExportFormat constants.
const (
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
	FormatText     ExportFormat = "text"
)

// ParseExportFormat returns the format named by s.
// Returns EINVALID for unknown names.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt", "plain":
		return FormatText, nil
	}
	return "", Errorf(EINVALID, "unknown export format %q", s)
}

// Extension returns the file extension used for the format.
func (f ExportFormat) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "txt"
	}
	return "md"
}

// Settings are the user preferences the extraction pipeline reads.
type Settings struct {
	Format           ExportFormat `yaml:"format"`
	ExtractSolution  bool         `yaml:"extractSolution"`
	AutoOpenSolution bool         `yaml:"autoOpenSolution"`
	IncludeMetadata  bool         `yaml:"includeMetadata"`
	ExtractChats     bool         `yaml:"extractChats"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Format:           FormatMarkdown,
		ExtractSolution:  true,
		AutoOpenSolution: false,
		IncludeMetadata:  true,
		ExtractChats:     true,
	}
}
