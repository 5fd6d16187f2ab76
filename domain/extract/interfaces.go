package extract

// ShardReader streams canonical Records from one input shard.
//
// Next returns io.EOF once the shard is exhausted. A *RowError means the
// current row could not be decoded but the shard remains readable; any
// other error is fatal for the shard. Shards are streamed batch by batch
// and never buffered in full.
type ShardReader interface {
	Next() (Record, error)
	Close() error
}

// RecordWriter persists a record's audio payload under its file name.
// Implementations must be safe for concurrent use by multiple workers;
// within one run each file name is written by at most one task.
type RecordWriter interface {
	Write(fileName string, data []byte) (WriteStatus, error)
}

// MetadataSink accumulates metadata rows across shards and serializes
// them when the run completes. Append must be safe for concurrent use.
type MetadataSink interface {
	Append(rows []MetadataRow)
	Flush() error
}
