package lessondump

// SplitText splits text into pieces of at most limit characters, preferring
// to break after the last newline, period or space inside each window.
// Text that already fits is returned as a single piece.
func SplitText(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + limit
		if end >= len(runes) {
			end = len(runes)
		} else if cut := lastBreak(runes[start:end]); cut > 0 {
			end = start + cut + 1
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end
	}
	return chunks
}

func lastBreak(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '\n', '.', ' ':
			return i
		}
	}
	return -1
}
