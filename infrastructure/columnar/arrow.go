package columnar

import (
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

// arrowReader streams records out of an Arrow IPC stream file, one
// record batch at a time.
type arrowReader struct {
	file   *os.File
	stream *ipc.Reader
	cur    *batchCursor
	row    int
}

func newArrowReader(path string) (*arrowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open arrow file %s: %w", path, err)
	}

	stream, err := ipc.NewReader(f, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read arrow stream %s: %w", path, err)
	}

	if err := validateSchema(stream.Schema()); err != nil {
		stream.Release()
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &arrowReader{file: f, stream: stream}, nil
}

// Next implements extract.ShardReader
func (r *arrowReader) Next() (extract.Record, error) {
	for {
		if r.cur != nil && !r.cur.done() {
			rec, err := r.cur.next(r.row)
			r.row++
			return rec, err
		}

		// Current batch exhausted; the stream reader releases it when
		// the next one is requested.
		if !r.stream.Next() {
			if err := r.stream.Err(); err != nil {
				return extract.Record{}, fmt.Errorf("read arrow batch: %w", err)
			}
			return extract.Record{}, io.EOF
		}

		cur, err := newBatchCursor(r.stream.Record())
		if err != nil {
			return extract.Record{}, err
		}
		r.cur = cur
	}
}

// Close implements extract.ShardReader
func (r *arrowReader) Close() error {
	r.stream.Release()
	return r.file.Close()
}

var _ extract.ShardReader = (*arrowReader)(nil)
