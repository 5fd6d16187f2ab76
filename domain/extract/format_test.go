package extract

import (
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        Format
		wantErr     bool
		errContains string
	}{
		{
			name:  "parquet",
			input: "parquet",
			want:  FormatParquet,
		},
		{
			name:  "arrow",
			input: "arrow",
			want:  FormatArrow,
		},
		{
			name:        "unknown format",
			input:       "orc",
			wantErr:     true,
			errContains: "unknown format",
		},
		{
			name:        "empty",
			input:       "",
			wantErr:     true,
			errContains: "unknown format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseFormat(%q) expected error, got nil", tt.input)
					return
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("ParseFormat(%q) error = %v, want error containing %q", tt.input, err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseFormat(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatExtension(t *testing.T) {
	if got := FormatParquet.Extension(); got != "parquet" {
		t.Errorf("FormatParquet.Extension() = %q, want %q", got, "parquet")
	}
	if got := FormatArrow.Extension(); got != "arrow" {
		t.Errorf("FormatArrow.Extension() = %q, want %q", got, "arrow")
	}
}

func TestWriteStatusString(t *testing.T) {
	tests := []struct {
		status WriteStatus
		want   string
	}{
		{StatusWritten, "written"},
		{StatusSkippedExisting, "skipped"},
		{StatusFailed, "failed"},
		{WriteStatus(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("WriteStatus(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestRunSummaryTotals(t *testing.T) {
	summary := &RunSummary{
		Shards: []ShardResult{
			{ShardPath: "a.parquet", Written: 3, Skipped: 1, Failed: 0},
			{ShardPath: "b.parquet", Written: 2, Skipped: 0, Failed: 2},
		},
	}

	if got := summary.TotalWritten(); got != 5 {
		t.Errorf("TotalWritten() = %d, want 5", got)
	}
	if got := summary.TotalSkipped(); got != 1 {
		t.Errorf("TotalSkipped() = %d, want 1", got)
	}
	if got := summary.TotalFailed(); got != 2 {
		t.Errorf("TotalFailed() = %d, want 2", got)
	}
	if !summary.OK() {
		t.Errorf("OK() = false for a run without fatal shards")
	}

	summary.FatalShards = 1
	if summary.OK() {
		t.Errorf("OK() = true for a run with a fatal shard")
	}
}
