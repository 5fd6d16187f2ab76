package columnar

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

// batchCursor normalizes one record batch into canonical Records. Both
// format readers produce batches with the same logical layout, so this
// is the single place the raw columns are mapped onto the Record shape.
type batchCursor struct {
	numRows int
	pos     int
	paths   arrow.Array
	payload arrow.Array
	trans   arrow.Array // nil when the shard has no transcription column
}

// newBatchCursor locates the audio struct leaves and the optional
// transcription column in rec. The schema was validated at shard open,
// so a failure here means the batch disagrees with its own schema.
func newBatchCursor(rec arrow.Record) (*batchCursor, error) {
	schema := rec.Schema()

	indices := schema.FieldIndices(audioColumn)
	if len(indices) == 0 {
		return nil, fmt.Errorf("batch has no %q column", audioColumn)
	}

	structArr, ok := rec.Column(indices[0]).(*array.Struct)
	if !ok {
		return nil, fmt.Errorf("%q column is not a struct array", audioColumn)
	}
	structType := schema.Field(indices[0]).Type.(*arrow.StructType)

	pathIdx, ok := structType.FieldIdx(pathField)
	if !ok {
		return nil, fmt.Errorf("%q column has no %q field", audioColumn, pathField)
	}
	bytesIdx, ok := structType.FieldIdx(bytesField)
	if !ok {
		return nil, fmt.Errorf("%q column has no %q field", audioColumn, bytesField)
	}

	cursor := &batchCursor{
		numRows: int(rec.NumRows()),
		paths:   structArr.Field(pathIdx),
		payload: structArr.Field(bytesIdx),
	}

	for _, name := range transcriptionColumns {
		if idx := schema.FieldIndices(name); len(idx) > 0 {
			cursor.trans = rec.Column(idx[0])
			break
		}
	}

	return cursor, nil
}

func (c *batchCursor) done() bool {
	return c.pos >= c.numRows
}

// next maps the cursor's current row onto a Record. row is the absolute
// row index within the shard, used to report skippable decode failures.
func (c *batchCursor) next(row int) (extract.Record, error) {
	i := c.pos
	c.pos++

	recorded, ok := stringAt(c.paths, i)
	if !ok {
		return extract.Record{}, &extract.RowError{Row: row, Err: fmt.Errorf("null %s value", pathField)}
	}

	data, ok := bytesAt(c.payload, i)
	if !ok {
		return extract.Record{}, &extract.RowError{Row: row, Err: fmt.Errorf("null %s value", bytesField)}
	}

	// Arrow buffers are reused across batches; the payload must outlive
	// the batch, so copy it out.
	audio := make([]byte, len(data))
	copy(audio, data)

	transcription := ""
	if c.trans != nil {
		if v, ok := stringAt(c.trans, i); ok {
			transcription = v
		}
	}

	rec, err := extract.NewRecord(extract.FileNameFromPath(recorded), audio, transcription)
	if err != nil {
		return extract.Record{}, &extract.RowError{Row: row, Err: err}
	}
	return rec, nil
}

// stringAt reads a string cell, handling both physical string layouts.
// Returns false for null cells.
func stringAt(a arrow.Array, i int) (string, bool) {
	if a.IsNull(i) {
		return "", false
	}
	switch v := a.(type) {
	case *array.String:
		return v.Value(i), true
	case *array.LargeString:
		return v.Value(i), true
	default:
		return "", false
	}
}

// bytesAt reads a binary cell, handling both physical binary layouts.
// Returns false for null cells.
func bytesAt(a arrow.Array, i int) ([]byte, bool) {
	if a.IsNull(i) {
		return nil, false
	}
	switch v := a.(type) {
	case *array.Binary:
		return v.Value(i), true
	case *array.LargeBinary:
		return v.Value(i), true
	default:
		return nil, false
	}
}
