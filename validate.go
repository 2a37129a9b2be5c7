package lessondump

import "strings"

// Warnings returns advisory problems with an extracted record. An empty
// result means the record looks complete. Warnings never block export.
func (r *ContentRecord) Warnings() []string {
	var warnings []string

	if r.ContentType == "" {
		warnings = append(warnings, "Missing content type")
	}
	if r.ExerciseType == "" {
		warnings = append(warnings, "Missing exercise type")
	}
	if strings.TrimSpace(r.Title) == "" {
		warnings = append(warnings, "Missing or empty title")
	}
	if strings.TrimSpace(r.Description) == "" {
		warnings = append(warnings, "Missing or empty description")
	}

	switch r.ExerciseType {
	case ExerciseInterview:
		if r.Interview == nil || len(r.Interview.Messages) == 0 {
			warnings = append(warnings, "No interview messages found")
		}
	case ExerciseCoding:
		if r.Coding == nil || len(r.Coding.Files) == 0 {
			warnings = append(warnings, "No code files found")
		}
	}

	return warnings
}
