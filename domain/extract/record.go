package extract

import (
	"fmt"
	"path"
)

// Record is the canonical in-memory representation of one extractable
// audio item, regardless of which columnar format it was read from.
type Record struct {
	FileName      string
	AudioBytes    []byte
	Transcription string
}

// NewRecord creates a Record with validation
func NewRecord(fileName string, audioBytes []byte, transcription string) (Record, error) {
	r := Record{
		FileName:      fileName,
		AudioBytes:    audioBytes,
		Transcription: transcription,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks that the record can be written to disk
func (r Record) Validate() error {
	if r.FileName == "" {
		return fmt.Errorf("record file name is required")
	}
	if len(r.AudioBytes) == 0 {
		return fmt.Errorf("record %q has an empty audio payload", r.FileName)
	}
	return nil
}

// FileNameFromPath derives the flat output file name from the path the
// dataset recorded for a row. Dataset paths are slash-separated and may
// carry directory components ("audio/clip1.wav"); only the base name is
// used since the output directory is flat.
func FileNameFromPath(recorded string) string {
	return path.Base(recorded)
}

// MetadataRow is one line of the metadata index: a written (or already
// present) audio file and its transcription.
type MetadataRow struct {
	FileName      string
	Transcription string
}

// RowError reports a row that could not be decoded. The shard remains
// readable; callers count the failure and continue with the next row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
