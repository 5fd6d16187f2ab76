package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name          string
		fileName      string
		audioBytes    []byte
		transcription string
		wantErr       bool
		errContains   string
	}{
		{
			name:          "valid record with transcription",
			fileName:      "sample1.wav",
			audioBytes:    []byte{0x52, 0x49, 0x46, 0x46},
			transcription: "hello world",
		},
		{
			name:       "valid record without transcription",
			fileName:   "sample2.wav",
			audioBytes: []byte{0x00, 0x01},
		},
		{
			name:        "empty file name",
			fileName:    "",
			audioBytes:  []byte{0x01},
			wantErr:     true,
			errContains: "file name is required",
		},
		{
			name:        "empty audio payload",
			fileName:    "sample3.wav",
			audioBytes:  nil,
			wantErr:     true,
			errContains: "empty audio payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRecord(tt.fileName, tt.audioBytes, tt.transcription)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewRecord() expected error, got nil")
					return
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewRecord() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("NewRecord() unexpected error: %v", err)
				return
			}

			if got.FileName != tt.fileName {
				t.Errorf("NewRecord() FileName = %q, want %q", got.FileName, tt.fileName)
			}
			if got.Transcription != tt.transcription {
				t.Errorf("NewRecord() Transcription = %q, want %q", got.Transcription, tt.transcription)
			}
		})
	}
}

func TestFileNameFromPath(t *testing.T) {
	tests := []struct {
		name     string
		recorded string
		want     string
	}{
		{
			name:     "nested dataset path",
			recorded: "audio/sample1.wav",
			want:     "sample1.wav",
		},
		{
			name:     "bare file name",
			recorded: "clip.mp3",
			want:     "clip.mp3",
		},
		{
			name:     "deeply nested path",
			recorded: "train/speaker_04/utt_0001.flac",
			want:     "utt_0001.flac",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileNameFromPath(tt.recorded); got != tt.want {
				t.Errorf("FileNameFromPath(%q) = %q, want %q", tt.recorded, got, tt.want)
			}
		})
	}
}

func TestRowError(t *testing.T) {
	cause := fmt.Errorf("null bytes value")
	err := &RowError{Row: 7, Err: cause}

	if got := err.Error(); !strings.Contains(got, "row 7") {
		t.Errorf("RowError.Error() = %q, want row index included", got)
	}
	if !errors.Is(err, cause) {
		t.Errorf("RowError should unwrap to its cause")
	}

	var rowErr *RowError
	if !errors.As(fmt.Errorf("decode: %w", err), &rowErr) {
		t.Errorf("RowError should be recoverable through errors.As after wrapping")
	}
}
