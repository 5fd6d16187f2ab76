package extract

import "fmt"

// Format identifies the columnar encoding of an input shard.
type Format string

const (
	// FormatArrow is the Arrow IPC streaming format.
	FormatArrow Format = "arrow"
	// FormatParquet is the Parquet columnar table format.
	FormatParquet Format = "parquet"
)

// DefaultFormat is used when no format is specified
const DefaultFormat = FormatParquet

// ParseFormat parses a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatArrow:
		return FormatArrow, nil
	case FormatParquet:
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected %q or %q)", s, FormatArrow, FormatParquet)
	}
}

// Extension returns the file extension shards of this format carry,
// without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

func (f Format) String() string {
	return string(f)
}
