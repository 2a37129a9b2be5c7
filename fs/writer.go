// Package fs writes exported records to the local filesystem.
package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/lessondump"
)

// Ensure Writer implements lessondump.FileWriter at compile time.
var _ lessondump.FileWriter = (*Writer)(nil)

// Writer writes files into one directory. Each file is written to a
// temporary sibling and renamed into place, so readers never observe a
// partial export.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
// The directory is created on first write.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteFile writes content to name inside the base directory, replacing any
// existing file. name must be a plain file name.
func (w *Writer) WriteFile(name string, content []byte) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", lessondump.Errorf(lessondump.EINVALID, "invalid file name %q", name)
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}
	fullPath := filepath.Join(w.baseDir, name)

	tmp, err := os.CreateTemp(w.baseDir, "."+name+".tmp-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}
