// Package extract coordinates the shard extraction pipeline: shard
// resolution, the per-shard read/normalize/dispatch loop, and result
// aggregation.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RustedBytes/extract-audio/domain/extract"
)

// OpenReaderFunc opens a ShardReader for the shard at path
type OpenReaderFunc func(ctx context.Context, path string) (extract.ShardReader, error)

// Service runs the extraction pipeline over a resolved set of shards.
// Shards are processed sequentially; parallelism lives inside the
// dispatcher, across one shard's records.
type Service struct {
	openReader       OpenReaderFunc
	writer           extract.RecordWriter
	sink             extract.MetadataSink // nil when no metadata output is configured
	dispatcher       *Dispatcher
	skipFailedShards bool
	output           io.Writer
}

// NewService creates a Service with injected dependencies. sink may be
// nil, in which case transcriptions are discarded after extraction.
func NewService(openReader OpenReaderFunc, writer extract.RecordWriter, sink extract.MetadataSink, dispatcher *Dispatcher, skipFailedShards bool, output io.Writer) *Service {
	if output == nil {
		output = io.Discard
	}
	return &Service{
		openReader:       openReader,
		writer:           writer,
		sink:             sink,
		dispatcher:       dispatcher,
		skipFailedShards: skipFailedShards,
		output:           output,
	}
}

// ResolveShards resolves the input into the ordered set of shard paths:
// either a single file, or every file in inputDir carrying the format's
// extension, in sorted directory-listing order. Exactly one of
// inputFile and inputDir must be given.
func ResolveShards(inputFile, inputDir string, format extract.Format) ([]string, error) {
	switch {
	case inputFile != "" && inputDir != "":
		return nil, fmt.Errorf("input file and input directory are mutually exclusive")
	case inputFile == "" && inputDir == "":
		return nil, fmt.Errorf("either an input file or an input directory is required")
	case inputFile != "":
		info, err := os.Stat(inputFile)
		if err != nil {
			return nil, fmt.Errorf("input file %s: %w", inputFile, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("input %s is a directory, not a file", inputFile)
		}
		return []string{inputFile}, nil
	default:
		entries, err := os.ReadDir(inputDir)
		if err != nil {
			return nil, fmt.Errorf("input directory %s: %w", inputDir, err)
		}
		ext := "." + format.Extension()
		var shards []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if filepath.Ext(entry.Name()) == ext {
				shards = append(shards, filepath.Join(inputDir, entry.Name()))
			}
		}
		if len(shards) == 0 {
			return nil, fmt.Errorf("input directory %s contains no %s files", inputDir, ext)
		}
		return shards, nil
	}
}

// Run processes the shards in order and aggregates their results. The
// metadata sink receives each shard's rows as one ordered block and is
// flushed once all shards finish. A fatal shard error aborts the run
// unless skip-failed-shards is set; either way the returned error is
// non-nil if any shard was fatal.
func (s *Service) Run(ctx context.Context, shardPaths []string) (*extract.RunSummary, error) {
	summary := &extract.RunSummary{}

	for _, shardPath := range shardPaths {
		fmt.Fprintf(s.output, "Processing shard %s...\n", shardPath)

		result, err := s.processShard(ctx, shardPath)
		summary.Shards = append(summary.Shards, result)

		if s.sink != nil && len(result.Metadata) > 0 {
			s.sink.Append(result.Metadata)
		}

		if err != nil {
			summary.FatalShards++
			fmt.Fprintf(s.output, "Shard %s failed: %v\n", shardPath, err)
			if !s.skipFailedShards {
				return summary, err
			}
			continue
		}

		fmt.Fprintf(s.output, "  %d written, %d skipped, %d failed\n",
			result.Written, result.Skipped, result.Failed)
	}

	if s.sink != nil {
		if err := s.sink.Flush(); err != nil {
			return summary, err
		}
	}

	if summary.FatalShards > 0 {
		return summary, fmt.Errorf("%d shard(s) failed", summary.FatalShards)
	}
	return summary, nil
}

func (s *Service) processShard(ctx context.Context, shardPath string) (extract.ShardResult, error) {
	reader, err := s.openReader(ctx, shardPath)
	if err != nil {
		return extract.ShardResult{ShardPath: shardPath}, err
	}
	defer reader.Close()

	return s.dispatcher.Run(ctx, shardPath, reader, s.writer)
}
