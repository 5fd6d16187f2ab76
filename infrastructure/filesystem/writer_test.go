package filesystem

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

func TestNewWriter(t *testing.T) {
	t.Run("creates missing output directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out", "nested")

		w, err := NewWriter(dir)
		if err != nil {
			t.Fatalf("NewWriter() unexpected error: %v", err)
		}
		if w.Dir() != dir {
			t.Errorf("Dir() = %q, want %q", w.Dir(), dir)
		}
		if !Exists(dir) {
			t.Errorf("output directory was not created")
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		if _, err := NewWriter(""); err == nil {
			t.Errorf("NewWriter(\"\") expected error, got nil")
		}
	})
}

func TestWriterWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() unexpected error: %v", err)
	}

	payload := []byte{0x52, 0x49, 0x46, 0x46}

	status, err := w.Write("a.wav", payload)
	if err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if status != extract.StatusWritten {
		t.Errorf("Write() status = %v, want %v", status, extract.StatusWritten)
	}

	got, err := os.ReadFile(filepath.Join(dir, "a.wav"))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("written bytes = %v, want %v", got, payload)
	}
}

func TestWriterSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() unexpected error: %v", err)
	}

	if _, err := w.Write("a.wav", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	// Deliberately different bytes: the skip check is name-based only,
	// content is not re-verified.
	status, err := w.Write("a.wav", []byte{9, 9, 9})
	if err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if status != extract.StatusSkippedExisting {
		t.Errorf("Write() status = %v, want %v", status, extract.StatusSkippedExisting)
	}

	got, err := os.ReadFile(filepath.Join(dir, "a.wav"))
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("existing file was modified on skip: got %v", got)
	}
}

func TestWriterFailure(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() unexpected error: %v", err)
	}

	// A name pointing into a nonexistent subdirectory fails the write.
	status, err := w.Write(filepath.Join("missing", "a.wav"), []byte{1})
	if err == nil {
		t.Fatalf("Write() expected error, got nil")
	}
	if status != extract.StatusFailed {
		t.Errorf("Write() status = %v, want %v", status, extract.StatusFailed)
	}
}
