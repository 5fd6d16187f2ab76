// Package metadata accumulates the transcription index and serializes
// it as CSV once a run completes.
package metadata

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

// Sink implements extract.MetadataSink backed by an in-memory ordered
// buffer. Append preserves call order, so the orchestrator appends each
// shard's rows as one block after the shard completes.
type Sink struct {
	mu   sync.Mutex
	path string
	rows []extract.MetadataRow
}

// NewSink creates a Sink that will write its CSV to path on Flush
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Append implements extract.MetadataSink
func (s *Sink) Append(rows []extract.MetadataRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// Rows returns a copy of the accumulated rows in append order
func (s *Sink) Rows() []extract.MetadataRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]extract.MetadataRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// Flush writes the accumulated rows as UTF-8 CSV with the header
// file_name,transcription. A configured sink always writes the header,
// even when no row carried a transcription.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create metadata file %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"file_name", "transcription"}); err != nil {
		return fmt.Errorf("write metadata header: %w", err)
	}
	for _, row := range s.rows {
		if err := w.Write([]string{row.FileName, row.Transcription}); err != nil {
			return fmt.Errorf("write metadata row for %s: %w", row.FileName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush metadata file %s: %w", s.path, err)
	}
	return nil
}

var _ extract.MetadataSink = (*Sink)(nil)
