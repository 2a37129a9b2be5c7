package lessondump

import "time"

// ExtractionConfig holds the timing and tuning constants of the extraction
// pipeline. The forced-scroll values are tuned against the live site; none
// of them has a derivation beyond "works in practice".
type ExtractionConfig struct {
	// Forced-scroll editor reading.
	SettleAfterAppear   time.Duration
	StepPx              int
	StepWait            time.Duration
	ForcedOvershoot     int
	StableSteps         int
	WiggleCount         int
	WiggleDelay         time.Duration
	EditorAppearTimeout time.Duration
	PollInterval        time.Duration

	// MaxDOMDepth bounds the ancestor walk looking for editor state.
	MaxDOMDepth int

	// TabSwitchDelay is waited after activating or restoring a tab.
	TabSwitchDelay time.Duration

	// Solution reveal.
	GateTimeout   time.Duration
	RevealTimeout time.Duration

	// Side-channel chats.
	ChatLoadTimeout time.Duration

	// IndentSpaces is the list indentation per nesting level.
	IndentSpaces int
}

// DefaultExtractionConfig returns the constants used against the live site.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		SettleAfterAppear:   220 * time.Millisecond,
		StepPx:              200,
		StepWait:            160 * time.Millisecond,
		ForcedOvershoot:     4000,
		StableSteps:         2,
		WiggleCount:         3,
		WiggleDelay:         120 * time.Millisecond,
		EditorAppearTimeout: 3000 * time.Millisecond,
		PollInterval:        80 * time.Millisecond,
		MaxDOMDepth:         10,
		TabSwitchDelay:      400 * time.Millisecond,
		GateTimeout:         1500 * time.Millisecond,
		RevealTimeout:       5000 * time.Millisecond,
		ChatLoadTimeout:     3000 * time.Millisecond,
		IndentSpaces:        3,
	}
}
