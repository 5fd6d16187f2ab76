// Package columnar reads audio records out of Arrow stream and Parquet
// dataset shards, normalizing both layouts into the domain's Record.
package columnar

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

const (
	audioColumn = "audio"
	pathField   = "path"
	bytesField  = "bytes"

	// batchSize bounds how many rows a parquet read materializes at once
	batchSize = 1024
)

// transcriptionColumns are the schema variants carrying the transcription
// text, checked in order.
var transcriptionColumns = []string{"transcription", "sentence"}

// Open returns a ShardReader for the shard at path in the given format.
// The shard's schema is validated here: a missing or malformed audio
// column is a fatal error for the shard.
func Open(ctx context.Context, path string, format extract.Format) (extract.ShardReader, error) {
	switch format {
	case extract.FormatArrow:
		return newArrowReader(path)
	case extract.FormatParquet:
		return newParquetReader(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// validateSchema checks that the shard schema carries the audio struct
// column with path and bytes leaves of the expected types. The
// transcription column is optional.
func validateSchema(schema *arrow.Schema) error {
	indices := schema.FieldIndices(audioColumn)
	if len(indices) == 0 {
		return fmt.Errorf("schema has no %q column", audioColumn)
	}

	structType, ok := schema.Field(indices[0]).Type.(*arrow.StructType)
	if !ok {
		return fmt.Errorf("%q column is not struct-typed (got %s)", audioColumn, schema.Field(indices[0]).Type)
	}

	pathIdx, ok := structType.FieldIdx(pathField)
	if !ok {
		return fmt.Errorf("%q column has no %q field", audioColumn, pathField)
	}
	if !isStringType(structType.Field(pathIdx).Type) {
		return fmt.Errorf("%q.%q field is not string-typed (got %s)", audioColumn, pathField, structType.Field(pathIdx).Type)
	}

	bytesIdx, ok := structType.FieldIdx(bytesField)
	if !ok {
		return fmt.Errorf("%q column has no %q field", audioColumn, bytesField)
	}
	if !isBinaryType(structType.Field(bytesIdx).Type) {
		return fmt.Errorf("%q.%q field is not binary-typed (got %s)", audioColumn, bytesField, structType.Field(bytesIdx).Type)
	}

	return nil
}

func isStringType(t arrow.DataType) bool {
	switch t.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return true
	default:
		return false
	}
}

func isBinaryType(t arrow.DataType) bool {
	switch t.ID() {
	case arrow.BINARY, arrow.LARGE_BINARY:
		return true
	default:
		return false
	}
}
