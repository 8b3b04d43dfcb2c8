// Package ingest holds the per-chunk outcome types of the ingestion pipeline.
package ingest

// ChunkStatus is the processing outcome of a single chunk.
type ChunkStatus string

// Chunk outcome values.
const (
	ChunkOK      ChunkStatus = "ok"
	ChunkSkipped ChunkStatus = "skipped"
)

// ChunkResult records how one chunk fared during embedding. Chunks are
// processed independently: a failed chunk is skipped, not fatal, unless every
// chunk fails.
type ChunkResult struct {
	seq    int
	status ChunkStatus
	err    error
}

// NewOK creates a successful chunk result.
func NewOK(seq int) ChunkResult { return ChunkResult{seq: seq, status: ChunkOK} }

// NewSkipped creates a skipped chunk result carrying the embedding error.
func NewSkipped(seq int, err error) ChunkResult {
	return ChunkResult{seq: seq, status: ChunkSkipped, err: err}
}

// Seq returns the chunk's sequence index.
func (r ChunkResult) Seq() int { return r.seq }

// Status returns the processing outcome.
func (r ChunkResult) Status() ChunkStatus { return r.status }

// Err returns the embedding error for skipped chunks, nil otherwise.
func (r ChunkResult) Err() error { return r.err }

// Outcome summarises a set of chunk results.
type Outcome struct {
	Succeeded int
	Skipped   int
	Results   []ChunkResult
}

// Collect folds chunk results into an Outcome.
func Collect(results []ChunkResult) Outcome {
	out := Outcome{Results: results}
	for _, r := range results {
		if r.Status() == ChunkOK {
			out.Succeeded++
		} else {
			out.Skipped++
		}
	}
	return out
}
