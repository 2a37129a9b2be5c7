package lessondump

import (
	"context"
	"time"
)

// Export records one delivery of a ContentRecord to a destination.
type Export struct {
	ID           string       `json:"id"`
	URL          string       `json:"url"`
	Title        string       `json:"title"`
	ExerciseType ExerciseType `json:"exerciseType"`
	Format       ExportFormat `json:"format"`
	Destination  string       `json:"destination"`
	ContentHash  string       `json:"contentHash"`
	ExportedAt   time.Time    `json:"exportedAt"`
}

// Validate returns an error if the export contains invalid fields.
func (e *Export) Validate() error {
	if e.URL == "" {
		return Errorf(EINVALID, "export URL required")
	}
	if e.Destination == "" {
		return Errorf(EINVALID, "export destination required")
	}
	return nil
}

// ExportService represents a service for managing the export history.
type ExportService interface {
	// CreateExport records an export. ID and ExportedAt are filled in when
	// empty.
	CreateExport(ctx context.Context, export *Export) error

	// FindExports retrieves exports matching the filter, newest first.
	FindExports(ctx context.Context, filter ExportFilter) ([]*Export, error)
}

// ExportFilter represents a filter for FindExports.
type ExportFilter struct {
	URL         *string `json:"url"`
	ContentHash *string `json:"contentHash"`
	Destination *string `json:"destination"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NoteClient sends records to a note-taking service.
type NoteClient interface {
	// Send creates a page for rec in the destination database. Returns the
	// URL of the created page. The client splits long text to fit the
	// service's own field limits.
	Send(ctx context.Context, rec *ContentRecord, destination string) (string, error)
}

// FileWriter writes exported files.
type FileWriter interface {
	// WriteFile writes content to name inside the writer's directory and
	// returns the full path.
	WriteFile(name string, content []byte) (string, error)
}
