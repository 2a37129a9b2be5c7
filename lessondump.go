// Package lessondump extracts structured learning-exercise content from a
// rendered course page, normalizes it into a ContentRecord, and exports it
// to local files or a note-taking service.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package lessondump
