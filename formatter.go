package lessondump

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	defaultTitle = "Boot.dev Content"
	footerText   = "Extracted with lessondump"
	rule         = "=================================================="
)

// FormatRecord serializes rec in the given format.
// Returns EINVALID for an unknown format.
func FormatRecord(rec *ContentRecord, format ExportFormat) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal record: %w", err)
		}
		return string(b), nil
	case FormatMarkdown:
		return formatMarkdown(rec), nil
	case FormatText:
		return formatText(rec), nil
	}
	return "", Errorf(EINVALID, "unknown export format %q", format)
}

// hasSolution reports whether s holds real solution content rather than one
// of the sentinels.
func hasSolution(s string) bool {
	return strings.TrimSpace(s) != "" &&
		s != SolutionNotAvailable &&
		s != InterviewSolutionNotAvailable &&
		s != SolutionExtractionFailed
}

func fence(code, language string) string {
	if language == LanguageUnknown {
		language = ""
	}
	return "```" + language + "\n" + code + "\n```"
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func formatMarkdown(rec *ContentRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", orDefault(rec.Title, defaultTitle))
	fmt.Fprintf(&b, "**Type:** %s\n", rec.ContentType)
	fmt.Fprintf(&b, "**Exercise Type:** %s\n", rec.ExerciseType)
	fmt.Fprintf(&b, "**Language:** %s\n", LanguageDisplayName(rec.Language))
	if rec.URL != "" {
		fmt.Fprintf(&b, "**URL:** %s\n", rec.URL)
	}
	if rec.Timestamp != nil {
		fmt.Fprintf(&b, "**Extracted:** %s\n", rec.Timestamp.Local().Format(time.DateTime))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Description\n%s\n\n", orDefault(rec.Description, "Not found"))

	if len(rec.Requirements) > 0 {
		b.WriteString("## Requirements\n\n")
		for i, req := range rec.Requirements {
			fmt.Fprintf(&b, "%d. %s\n", i+1, req)
		}
		b.WriteString("\n")
	}

	if len(rec.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, note := range rec.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
		b.WriteString("\n")
	}

	if len(rec.Examples) > 0 {
		b.WriteString("## Examples\n\n")
		for _, ex := range rec.Examples {
			b.WriteString(fence(ex.Code, ex.Language) + "\n\n")
		}
	}

	switch {
	case rec.MultipleChoice != nil:
		mc := rec.MultipleChoice
		fmt.Fprintf(&b, "## Question\n\n%s\n\n", mc.Question)
		b.WriteString("## Options\n\n")
		for _, opt := range mc.Options {
			marker := " "
			if opt.IsSelected {
				marker = "✓"
			}
			fmt.Fprintf(&b, "%d. [%s] %s\n", opt.Index, marker, opt.Text)
		}
		b.WriteString("\n")
		if mc.SelectedAnswer != nil {
			fmt.Fprintf(&b, "**Selected Answer:** Option %d\n\n", *mc.SelectedAnswer)
		}

	case rec.Interview != nil:
		iv := rec.Interview
		if len(iv.Messages) > 0 {
			b.WriteString("## Interview Transcript\n\n")
			for _, msg := range iv.Messages {
				fmt.Fprintf(&b, "### %s\n\n%s\n\n", msg.Speaker, msg.Content)
			}
		}
		if len(iv.ExpectedPoints) > 0 {
			b.WriteString("## Official Solution\n\n")
			for _, p := range iv.ExpectedPoints {
				fmt.Fprintf(&b, "%d. %s\n", p.Index, p.Point)
			}
			b.WriteString("\n")
		} else if hasSolution(iv.Solution) {
			fmt.Fprintf(&b, "## Official Solution\n\n%s\n\n", iv.Solution)
		}

	case rec.FreeText != nil:
		ft := rec.FreeText
		if ft.UserAnswer != "" {
			fmt.Fprintf(&b, "## My Answer\n\n%s\n\n", ft.UserAnswer)
		}
		if len(ft.Checks) > 0 {
			b.WriteString("## Checks\n\n")
			for i, c := range ft.Checks {
				fmt.Fprintf(&b, "%d. %s\n", i+1, c.Description)
				for _, v := range c.ExpectedValues {
					fmt.Fprintf(&b, "   - `%s`\n", v)
				}
			}
			b.WriteString("\n")
		}

	case rec.CLI != nil:
		cli := rec.CLI
		if cli.Instructions != "" {
			fmt.Fprintf(&b, "## Instructions\n\n%s\n\n", cli.Instructions)
		}
		if cli.RunCommand != "" || cli.SubmitCommand != "" {
			b.WriteString("## Commands\n\n")
			if cli.RunCommand != "" {
				fmt.Fprintf(&b, "- Run: `%s`\n", cli.RunCommand)
			}
			if cli.SubmitCommand != "" {
				fmt.Fprintf(&b, "- Submit: `%s`\n", cli.SubmitCommand)
			}
			b.WriteString("\n")
		}
		if len(cli.Checks) > 0 {
			b.WriteString("## Checks\n\n")
			for i, c := range cli.Checks {
				fmt.Fprintf(&b, "%d. `%s`\n", i+1, c.Command)
				for _, e := range c.Expectations {
					fmt.Fprintf(&b, "   - %s\n", e)
				}
			}
			b.WriteString("\n")
		}

	case rec.Coding != nil:
		c := rec.Coding
		if len(c.Files) > 0 {
			b.WriteString("## Code Files\n\n")
			for _, f := range c.Files {
				lang := f.Language
				if lang == LanguageUnknown {
					lang = rec.Language
				}
				fmt.Fprintf(&b, "### %s\n\n%s\n\n", f.FileName, fence(f.Code, lang))
			}
		}
		if strings.TrimSpace(c.UserCode) != "" && strings.TrimSpace(c.UserCode) != "pass" {
			fmt.Fprintf(&b, "## My Solution Attempt\n%s\n\n", fence(c.UserCode, rec.Language))
		}
		if hasSolution(c.Solution) {
			fmt.Fprintf(&b, "## Official Solution\n%s\n\n", fence(c.Solution, rec.Language))
		}
	}

	for _, chat := range rec.Chats {
		fmt.Fprintf(&b, "## Chat: %s\n\n", orDefault(chat.Title, "Untitled"))
		for _, msg := range chat.Messages {
			fmt.Fprintf(&b, "**%s:** %s\n\n", msg.Speaker, msg.Content)
		}
	}

	b.WriteString("---\n*" + footerText + "*\n")
	return b.String()
}

func formatText(rec *ContentRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n\n", orDefault(rec.Title, defaultTitle), rule)
	fmt.Fprintf(&b, "Type: %s\n", rec.ContentType)
	fmt.Fprintf(&b, "Exercise Type: %s\n", rec.ExerciseType)
	fmt.Fprintf(&b, "Language: %s\n", LanguageDisplayName(rec.Language))
	if rec.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", rec.URL)
	}
	if rec.Timestamp != nil {
		fmt.Fprintf(&b, "Extracted: %s\n", rec.Timestamp.Local().Format(time.DateTime))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "DESCRIPTION:\n%s\n\n", orDefault(rec.Description, "Not found"))

	if len(rec.Requirements) > 0 {
		b.WriteString("REQUIREMENTS:\n")
		for i, req := range rec.Requirements {
			fmt.Fprintf(&b, "%d. %s\n", i+1, req)
		}
		b.WriteString("\n")
	}

	switch {
	case rec.MultipleChoice != nil:
		mc := rec.MultipleChoice
		fmt.Fprintf(&b, "QUESTION:\n%s\n\nOPTIONS:\n", mc.Question)
		for _, opt := range mc.Options {
			marker := "[ ]"
			if opt.IsSelected {
				marker = "[X]"
			}
			fmt.Fprintf(&b, "%d. %s %s\n", opt.Index, marker, opt.Text)
		}
		b.WriteString("\n")
		if mc.SelectedAnswer != nil {
			fmt.Fprintf(&b, "SELECTED ANSWER: Option %d\n\n", *mc.SelectedAnswer)
		}

	case rec.Interview != nil:
		iv := rec.Interview
		if len(iv.Messages) > 0 {
			b.WriteString("INTERVIEW TRANSCRIPT:\n\n")
			for _, msg := range iv.Messages {
				fmt.Fprintf(&b, "[%s]\n%s\n\n", msg.Speaker, msg.Content)
			}
		}
		if len(iv.ExpectedPoints) > 0 {
			b.WriteString("OFFICIAL SOLUTION:\n")
			for _, p := range iv.ExpectedPoints {
				fmt.Fprintf(&b, "%d. %s\n", p.Index, p.Point)
			}
			b.WriteString("\n")
		} else if hasSolution(iv.Solution) {
			fmt.Fprintf(&b, "OFFICIAL SOLUTION:\n%s\n\n", iv.Solution)
		}

	case rec.FreeText != nil:
		ft := rec.FreeText
		if ft.UserAnswer != "" {
			fmt.Fprintf(&b, "MY ANSWER:\n%s\n\n", ft.UserAnswer)
		}
		if len(ft.Checks) > 0 {
			b.WriteString("CHECKS:\n")
			for i, c := range ft.Checks {
				fmt.Fprintf(&b, "%d. %s\n", i+1, c.Description)
				for _, v := range c.ExpectedValues {
					fmt.Fprintf(&b, "   - %s\n", v)
				}
			}
			b.WriteString("\n")
		}

	case rec.CLI != nil:
		cli := rec.CLI
		if cli.Instructions != "" {
			fmt.Fprintf(&b, "INSTRUCTIONS:\n%s\n\n", cli.Instructions)
		}
		if cli.RunCommand != "" {
			fmt.Fprintf(&b, "RUN: %s\n", cli.RunCommand)
		}
		if cli.SubmitCommand != "" {
			fmt.Fprintf(&b, "SUBMIT: %s\n", cli.SubmitCommand)
		}
		if len(cli.Checks) > 0 {
			b.WriteString("\nCHECKS:\n")
			for i, c := range cli.Checks {
				fmt.Fprintf(&b, "%d. %s\n", i+1, c.Command)
				for _, e := range c.Expectations {
					fmt.Fprintf(&b, "   - %s\n", e)
				}
			}
		}
		b.WriteString("\n")

	case rec.Coding != nil:
		c := rec.Coding
		if len(c.Files) > 0 {
			b.WriteString("CODE FILES:\n\n")
			for _, f := range c.Files {
				fmt.Fprintf(&b, "%s:\n%s\n\n", f.FileName, f.Code)
			}
		}
		if strings.TrimSpace(c.UserCode) != "" && strings.TrimSpace(c.UserCode) != "pass" {
			fmt.Fprintf(&b, "MY SOLUTION ATTEMPT:\n%s\n\n", c.UserCode)
		}
		if hasSolution(c.Solution) {
			fmt.Fprintf(&b, "OFFICIAL SOLUTION:\n%s\n\n", c.Solution)
		}
	}

	for _, chat := range rec.Chats {
		fmt.Fprintf(&b, "CHAT: %s\n\n", orDefault(chat.Title, "Untitled"))
		for _, msg := range chat.Messages {
			fmt.Fprintf(&b, "[%s]\n%s\n\n", msg.Speaker, msg.Content)
		}
	}

	b.WriteString(rule + "\n" + footerText + "\n")
	return b.String()
}

var (
	nonAlnum   = regexp.MustCompile(`[^a-zA-Z0-9]`)
	dashRun    = regexp.MustCompile(`-+`)
	edgeDashes = regexp.MustCompile(`^-|-$`)
)

// SanitizeFilename reduces s to lower-case alphanumerics separated by
// single dashes.
func SanitizeFilename(s string) string {
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.ToLower(s)
	s = dashRun.ReplaceAllString(s, "-")
	return edgeDashes.ReplaceAllString(s, "")
}

// Filename returns the export filename for rec, stamped with the date of t.
func Filename(rec *ContentRecord, format ExportFormat, t time.Time) string {
	name := SanitizeFilename(rec.Title)
	if name == "" {
		name = "bootdev-content"
	}
	return name + "-" + t.Format(time.DateOnly) + "." + format.Extension()
}
