// Package filesystem persists extracted audio payloads into a flat
// output directory with skip-on-exists semantics.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

// Writer implements extract.RecordWriter on top of the os package.
//
// A file is written only if no file with that name exists yet; this is
// the resume mechanism, so re-running over a partially completed output
// directory only performs the remaining work. Existing content is not
// verified on skip.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed and returns a Writer
// targeting it.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Write implements extract.RecordWriter
func (w *Writer) Write(fileName string, data []byte) (extract.WriteStatus, error) {
	target := filepath.Join(w.dir, fileName)

	_, err := os.Stat(target)
	if err == nil {
		return extract.StatusSkippedExisting, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return extract.StatusFailed, fmt.Errorf("stat %s: %w", target, err)
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return extract.StatusFailed, fmt.Errorf("write %s: %w", target, err)
	}
	return extract.StatusWritten, nil
}

// Exists returns true if the path exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var _ extract.RecordWriter = (*Writer)(nil)
