package retriever

import (
	"context"

	"github.com/tradekb/tradekb/pkg/types"
)

// Attribution names one retrieved chunk that contributed to an answer
type Attribution struct {
	ClassID    string
	FileName   string
	ChunkIndex int
	Score      float64
}

// Answer is a generated response grounded in retrieved context
type Answer struct {
	Text    string
	Success bool
	Sources []Attribution
}

// Generator produces an answer to a question from ranked context chunks.
// Implementations wrap a generative backend; a zero-result context slice is
// valid and should yield an "insufficient context" style answer rather than
// an error.
type Generator interface {
	Generate(ctx context.Context, question string, results []types.QueryResult, systemPrompt string) (*Answer, error)
}

// Attributions maps ranked results to source attributions, preserving order
func Attributions(results []types.QueryResult) []Attribution {
	sources := make([]Attribution, 0, len(results))
	for _, res := range results {
		sources = append(sources, Attribution{
			ClassID:    res.Payload.ClassID,
			FileName:   res.Payload.FileName,
			ChunkIndex: res.Payload.ChunkIndex,
			Score:      res.Score,
		})
	}
	return sources
}
