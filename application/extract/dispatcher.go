package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

// Dispatcher fans one shard's record stream out across a bounded worker
// pool. Tasks may complete in any order; metadata rows are re-sorted by
// their source row index so the shard's metadata block matches source
// row order.
type Dispatcher struct {
	workers int
}

// NewDispatcher creates a Dispatcher with the given worker count,
// clamped to at least one worker.
func NewDispatcher(workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{workers: workers}
}

// Workers returns the configured worker count
func (d *Dispatcher) Workers() int {
	return d.workers
}

type task struct {
	index  int
	record extract.Record
}

type taskResult struct {
	index  int
	status extract.WriteStatus
	row    extract.MetadataRow
	hasRow bool
}

// Run drives extraction for one shard: records are read from reader on
// the calling goroutine and handed to the pool, with the task channel
// capacity bounding how far reading runs ahead of writing. Skippable
// row errors and failed writes increment the failure count without
// aborting; the returned error is non-nil only for a fatal reader
// failure, in which case the partial result is still returned.
func (d *Dispatcher) Run(ctx context.Context, shardPath string, reader extract.ShardReader, writer extract.RecordWriter) (extract.ShardResult, error) {
	tasks := make(chan task, d.workers)
	results := make(chan taskResult, d.workers)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				status, err := writer.Write(t.record.FileName, t.record.AudioBytes)
				res := taskResult{index: t.index, status: status}
				if err == nil && status != extract.StatusFailed && t.record.Transcription != "" {
					res.row = extract.MetadataRow{
						FileName:      t.record.FileName,
						Transcription: t.record.Transcription,
					}
					res.hasRow = true
				}
				results <- res
			}
		}()
	}

	type indexedRow struct {
		index int
		row   extract.MetadataRow
	}

	result := extract.ShardResult{ShardPath: shardPath}
	var rows []indexedRow
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for res := range results {
			switch res.status {
			case extract.StatusWritten:
				result.Written++
			case extract.StatusSkippedExisting:
				result.Skipped++
			default:
				result.Failed++
			}
			if res.hasRow {
				rows = append(rows, indexedRow{index: res.index, row: res.row})
			}
		}
	}()

	// Decode failures are counted here and merged after the collector
	// finishes; the collector owns the result until then.
	var fatal error
	decodeFailures := 0
	index := 0
feed:
	for {
		if err := ctx.Err(); err != nil {
			fatal = err
			break
		}

		rec, err := reader.Next()
		switch {
		case errors.Is(err, io.EOF):
			break feed
		case err != nil:
			var rowErr *extract.RowError
			if errors.As(err, &rowErr) {
				decodeFailures++
				continue
			}
			fatal = fmt.Errorf("reading %s: %w", shardPath, err)
			break feed
		}

		tasks <- task{index: index, record: rec}
		index++
	}

	close(tasks)
	wg.Wait()
	close(results)
	<-collected

	result.Failed += decodeFailures

	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })
	for _, r := range rows {
		result.Metadata = append(result.Metadata, r.row)
	}

	return result, fatal
}
