package extract

// WriteStatus is the outcome of writing one record's audio payload.
type WriteStatus int

const (
	// StatusWritten means a new file was created.
	StatusWritten WriteStatus = iota
	// StatusSkippedExisting means a file with that name already existed
	// and was left untouched.
	StatusSkippedExisting
	// StatusFailed means the write was attempted and failed.
	StatusFailed
)

func (s WriteStatus) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusSkippedExisting:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ShardResult aggregates the outcome of processing one input shard.
// Metadata preserves the shard's source row order.
type ShardResult struct {
	ShardPath string
	Written   int
	Skipped   int
	Failed    int
	Metadata  []MetadataRow
}

// Processed returns the number of rows that reached a terminal state
func (r ShardResult) Processed() int {
	return r.Written + r.Skipped + r.Failed
}

// RunSummary aggregates results across all shards of one run.
type RunSummary struct {
	Shards      []ShardResult
	FatalShards int
}

// TotalWritten sums written counts across shards
func (s *RunSummary) TotalWritten() int {
	n := 0
	for _, r := range s.Shards {
		n += r.Written
	}
	return n
}

// TotalSkipped sums skipped counts across shards
func (s *RunSummary) TotalSkipped() int {
	n := 0
	for _, r := range s.Shards {
		n += r.Skipped
	}
	return n
}

// TotalFailed sums per-record failure counts across shards
func (s *RunSummary) TotalFailed() int {
	n := 0
	for _, r := range s.Shards {
		n += r.Failed
	}
	return n
}

// OK reports whether the run completed without any fatal shard error.
// Per-record failures do not make a run fatal.
func (s *RunSummary) OK() bool {
	return s.FatalShards == 0
}
