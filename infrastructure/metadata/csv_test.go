package metadata

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open metadata file: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse metadata file: %v", err)
	}
	return rows
}

func TestSinkFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	sink := NewSink(path)

	sink.Append([]extract.MetadataRow{
		{FileName: "a.wav", Transcription: "hello"},
		{FileName: "b.wav", Transcription: "goodbye"},
	})
	sink.Append([]extract.MetadataRow{
		{FileName: "c.wav", Transcription: "third shard block"},
	})

	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush() unexpected error: %v", err)
	}

	got := readCSV(t, path)
	want := [][]string{
		{"file_name", "transcription"},
		{"a.wav", "hello"},
		{"b.wav", "goodbye"},
		{"c.wav", "third shard block"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CSV rows = %v, want %v", got, want)
	}
}

func TestSinkFlushEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	sink := NewSink(path)

	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush() unexpected error: %v", err)
	}

	got := readCSV(t, path)
	if len(got) != 1 || got[0][0] != "file_name" || got[0][1] != "transcription" {
		t.Errorf("empty sink should still write the header, got %v", got)
	}
}

func TestSinkEscaping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	sink := NewSink(path)

	rows := []extract.MetadataRow{
		{FileName: "comma.wav", Transcription: "pause, then continue"},
		{FileName: "quote.wav", Transcription: `she said "stop"`},
		{FileName: "newline.wav", Transcription: "first line\nsecond line"},
	}
	sink.Append(rows)

	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush() unexpected error: %v", err)
	}

	got := readCSV(t, path)
	if len(got) != 4 {
		t.Fatalf("got %d CSV rows, want 4", len(got))
	}
	for i, row := range rows {
		if got[i+1][1] != row.Transcription {
			t.Errorf("row %d transcription = %q, want %q after CSV round trip", i, got[i+1][1], row.Transcription)
		}
	}
}

func TestSinkConcurrentAppend(t *testing.T) {
	sink := NewSink(filepath.Join(t.TempDir(), "meta.csv"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sink.Append([]extract.MetadataRow{{FileName: "x.wav", Transcription: "t"}})
			}
		}()
	}
	wg.Wait()

	if got := len(sink.Rows()); got != 400 {
		t.Errorf("Rows() length = %d, want 400", got)
	}
}
