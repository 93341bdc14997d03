package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tradekb/tradekb/internal/embedder"
	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/pkg/types"
)

// ErrInvalidQuery indicates a blank question or non-positive result count
var ErrInvalidQuery = errors.New("invalid query")

// DefaultTopK is the default number of results returned per query
const DefaultTopK = 5

// Retriever embeds a question and searches the vector index for the most
// similar chunks. It holds no per-query state: every call re-embeds and
// re-queries, so index updates are visible immediately.
type Retriever struct {
	batcher *embedder.Batcher
	index   vectorindex.Index
}

// New creates a retriever over the given embedding batcher and index
func New(batcher *embedder.Batcher, index vectorindex.Index) *Retriever {
	return &Retriever{batcher: batcher, index: index}
}

// Query embeds question and returns up to topK results from collection,
// ordered by descending similarity. filters narrows the search to payloads
// whose named fields equal the given values (conjunctive). An empty result
// is not an error.
func (r *Retriever) Query(ctx context.Context, collection, question string, topK int, filters vectorindex.Filters) ([]types.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", ErrInvalidQuery)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidQuery, topK)
	}

	vector, err := r.batcher.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := r.index.Search(ctx, collection, vector, topK, filters)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}
	for i := range results {
		if err := results[i].Validate(); err != nil {
			return nil, fmt.Errorf("search %s: malformed point in result %d: %w", collection, i, err)
		}
	}
	return results, nil
}

// Stats summarizes one query call
type Stats struct {
	Question     string
	TopK         int
	ResultCount  int
	Duration     time.Duration
	MinScore     float64
	MaxScore     float64
	AvgScore     float64
	SourceCounts map[string]int
	ClassCounts  map[string]int
}

// QueryWithStats runs Query and computes score and distribution statistics
// over the result set.
func (r *Retriever) QueryWithStats(ctx context.Context, collection, question string, topK int, filters vectorindex.Filters) ([]types.QueryResult, *Stats, error) {
	start := time.Now()

	results, err := r.Query(ctx, collection, question, topK, filters)
	if err != nil {
		return nil, nil, err
	}

	stats := &Stats{
		Question:     question,
		TopK:         topK,
		ResultCount:  len(results),
		Duration:     time.Since(start),
		SourceCounts: make(map[string]int),
		ClassCounts:  make(map[string]int),
	}

	for i, res := range results {
		if i == 0 || res.Score < stats.MinScore {
			stats.MinScore = res.Score
		}
		if res.Score > stats.MaxScore {
			stats.MaxScore = res.Score
		}
		stats.AvgScore += res.Score
		stats.SourceCounts[res.Payload.Source]++
		stats.ClassCounts[res.Payload.ClassID]++
	}
	if len(results) > 0 {
		stats.AvgScore /= float64(len(results))
	}

	return results, stats, nil
}
