package mock

import (
	"context"

	"github.com/fwojciec/lessondump"
)

// Compile-time interface verification.
var (
	_ lessondump.ExportService = (*ExportService)(nil)
	_ lessondump.NoteClient    = (*NoteClient)(nil)
	_ lessondump.FileWriter    = (*FileWriter)(nil)
)

// ExportService is a mock implementation of lessondump.ExportService.
type ExportService struct {
	CreateExportFn func(ctx context.Context, export *lessondump.Export) error
	FindExportsFn  func(ctx context.Context, filter lessondump.ExportFilter) ([]*lessondump.Export, error)
}

func (s *ExportService) CreateExport(ctx context.Context, export *lessondump.Export) error {
	return s.CreateExportFn(ctx, export)
}

func (s *ExportService) FindExports(ctx context.Context, filter lessondump.ExportFilter) ([]*lessondump.Export, error) {
	return s.FindExportsFn(ctx, filter)
}

// NoteClient is a mock implementation of lessondump.NoteClient.
type NoteClient struct {
	SendFn func(ctx context.Context, rec *lessondump.ContentRecord, destination string) (string, error)
}

func (c *NoteClient) Send(ctx context.Context, rec *lessondump.ContentRecord, destination string) (string, error) {
	return c.SendFn(ctx, rec, destination)
}

// FileWriter is a mock implementation of lessondump.FileWriter.
type FileWriter struct {
	WriteFileFn func(name string, content []byte) (string, error)
}

func (w *FileWriter) WriteFile(name string, content []byte) (string, error) {
	return w.WriteFileFn(name, content)
}
