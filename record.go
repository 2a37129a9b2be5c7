package lessondump

import "time"

// ContentType identifies which kind of course page a record came from.
type ContentType string

// ContentType constants.
const (
	ContentChallenge ContentType = "challenge"
	ContentLesson    ContentType = "lesson"
)

// ExerciseType identifies which extraction path produced a record.
type ExerciseType string

// ExerciseType constants.
const (
	ExerciseCoding         ExerciseType = "coding"
	ExerciseInterview      ExerciseType = "interview"
	ExerciseMultipleChoice ExerciseType = "multiple-choice"
	ExerciseFreeText       ExerciseType = "free-text"
	ExerciseCLI            ExerciseType = "cli"
)

// ExerciseTypes lists every exercise type in classifier priority order.
var ExerciseTypes = []ExerciseType{
	ExerciseCLI,
	ExerciseFreeText,
	ExerciseMultipleChoice,
	ExerciseInterview,
	ExerciseCoding,
}

// Speaker identifies the author of a transcript message.
type Speaker string

// Speaker constants.
const (
	SpeakerBoots Speaker = "Boots"
	SpeakerUser  Speaker = "User"
)

// Solution sentinels written in place of solution content.
const (
	SolutionNotAvailable          = "Solution not available (open solution view first)"
	InterviewSolutionNotAvailable = "Solution not available (not opened yet)"
	SolutionExtractionFailed      = "Solution extraction failed"
)

// ContentRecord is the canonical output of one extraction. Exactly one of the
// variant payloads (Coding, Interview, MultipleChoice, FreeText, CLI) is
// non-nil and it matches ExerciseType.
type ContentRecord struct {
	ContentType  ContentType  `json:"type"`
	ExerciseType ExerciseType `json:"exerciseType"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Requirements []string     `json:"requirements"`
	Notes        []string     `json:"notes"`
	Examples     []CodeBlock  `json:"examples"`
	Language     string       `json:"language"`
	Rating       int          `json:"rating"`

	Coding         *Coding         `json:"coding,omitempty"`
	Interview      *Interview      `json:"interview,omitempty"`
	MultipleChoice *MultipleChoice `json:"multipleChoice,omitempty"`
	FreeText       *FreeText       `json:"freeText,omitempty"`
	CLI            *CLI            `json:"cli,omitempty"`

	Chats []Chat `json:"chats,omitempty"`

	// URL and Timestamp are left empty when metadata capture is disabled.
	URL       string     `json:"url,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// NewContentRecord returns an empty record with non-nil slices and the
// unknown-language sentinel.
func NewContentRecord() *ContentRecord {
	return &ContentRecord{
		ContentType:  ContentLesson,
		ExerciseType: ExerciseCoding,
		Requirements: []string{},
		Notes:        []string{},
		Examples:     []CodeBlock{},
		Language:     LanguageUnknown,
	}
}

// Solution returns the solution field of the populated variant, if any.
func (r *ContentRecord) Solution() string {
	switch {
	case r.Coding != nil:
		return r.Coding.Solution
	case r.Interview != nil:
		return r.Interview.Solution
	}
	return ""
}

// CodeBlock is a fenced code fragment in document order.
type CodeBlock struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Coding is the payload of a coding exercise.
type Coding struct {
	Files    []CodeFile `json:"files"`
	UserCode string     `json:"userCode"`
	Solution string     `json:"solution"`
}

// CodeFile is one editor tab. Files keep on-page tab order.
type CodeFile struct {
	FileName string `json:"fileName"`
	Code     string `json:"code"`
	Language string `json:"language"`
	IsActive bool   `json:"isActive"`
}

// ActiveFile returns the file that was active before extraction, or nil.
func (c *Coding) ActiveFile() *CodeFile {
	for i := range c.Files {
		if c.Files[i].IsActive {
			return &c.Files[i]
		}
	}
	return nil
}

// Interview is the payload of an interview exercise.
type Interview struct {
	Messages       []InterviewMessage `json:"messages"`
	ExpectedPoints []ExpectedPoint    `json:"expectedPoints"`
	Solution       string             `json:"solution"`
}

// InterviewMessage is one transcript entry. Content is markdown with code
// blocks fenced in place; CodeBlocks repeats them in the same order.
type InterviewMessage struct {
	Index      int         `json:"index"`
	Speaker    Speaker     `json:"speaker"`
	Content    string      `json:"content"`
	CodeBlocks []CodeBlock `json:"codeBlocks"`
}

// ExpectedPoint is one criterion of the official interview solution.
type ExpectedPoint struct {
	Index int    `json:"index"`
	Point string `json:"point"`
}

// MultipleChoice is the payload of a multiple-choice exercise.
type MultipleChoice struct {
	Question string   `json:"question"`
	Options  []Option `json:"options"`

	// SelectedAnswer is the 1-based index of the selected option.
	SelectedAnswer *int `json:"selectedAnswer,omitempty"`
}

// Option is one answer of a multiple-choice question.
type Option struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	IsSelected bool   `json:"isSelected"`
}

// FreeText is the payload of a free-text exercise.
type FreeText struct {
	UserAnswer    string          `json:"userAnswer"`
	Checks        []FreeTextCheck `json:"checks"`
	ChecksVisible bool            `json:"checksVisible"`
}

// FreeTextCheck is one expected-answer criterion.
type FreeTextCheck struct {
	Description    string   `json:"description"`
	ExpectedValues []string `json:"expectedValues"`
}

// CLI is the payload of a command-line exercise.
type CLI struct {
	RunCommand    string     `json:"runCommand"`
	SubmitCommand string     `json:"submitCommand"`
	Checks        []CLICheck `json:"checks"`
	Instructions  string     `json:"instructions"`
}

// CLICheck is one validation step run against the user's environment.
type CLICheck struct {
	Command      string   `json:"command"`
	Expectations []string `json:"expectations"`
}

// Chat is a side-channel conversation attached to an exercise.
type Chat struct {
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

// ChatMessage is one entry of a chat transcript.
type ChatMessage struct {
	Speaker Speaker `json:"speaker"`
	Content string  `json:"content"`
	HasCode bool    `json:"hasCode"`
}
