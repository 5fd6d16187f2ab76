package columnar

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

// parquetReader streams records out of a Parquet file by reading its row
// groups as Arrow record batches.
type parquetReader struct {
	reader  *file.Reader
	records pqarrow.RecordReader
	cur     *batchCursor
	row     int
}

func newParquetReader(ctx context.Context, path string) (*parquetReader, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("open parquet file %s: %w", path, err)
	}

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: batchSize}, memory.DefaultAllocator)
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("read parquet file %s: %w", path, err)
	}

	schema, err := fr.Schema()
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("read parquet schema %s: %w", path, err)
	}
	if err := validateSchema(schema); err != nil {
		pf.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	records, err := fr.GetRecordReader(ctx, nil, nil)
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("read parquet row groups %s: %w", path, err)
	}

	return &parquetReader{reader: pf, records: records}, nil
}

// Next implements extract.ShardReader
func (r *parquetReader) Next() (extract.Record, error) {
	for {
		if r.cur != nil && !r.cur.done() {
			rec, err := r.cur.next(r.row)
			r.row++
			return rec, err
		}

		if !r.records.Next() {
			if err := r.records.Err(); err != nil {
				return extract.Record{}, fmt.Errorf("read parquet batch: %w", err)
			}
			return extract.Record{}, io.EOF
		}

		cur, err := newBatchCursor(r.records.Record())
		if err != nil {
			return extract.Record{}, err
		}
		r.cur = cur
	}
}

// Close implements extract.ShardReader
func (r *parquetReader) Close() error {
	r.records.Release()
	return r.reader.Close()
}

var _ extract.ShardReader = (*parquetReader)(nil)
