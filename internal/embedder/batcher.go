package embedder

import (
	"context"
	"fmt"
	"strings"
)

// DefaultBatchSize is the default sub-batch size for provider calls
const DefaultBatchSize = 32

// Batcher turns arbitrary text slices into position-stable embedding
// matrices. Blank texts are never sent to the provider; their slots are
// filled with zero vectors so the output always has one row per input, in
// input order. Non-blank texts are encoded in sub-batches and L2-normalized.
type Batcher struct {
	provider  Embedder
	batchSize int
}

// NewBatcher wraps a provider with positional batching. A non-positive
// batchSize falls back to DefaultBatchSize; anything above MaxProviderBatch
// is clamped so sub-batches never exceed what a provider accepts.
func NewBatcher(provider Embedder, batchSize int) *Batcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > MaxProviderBatch {
		batchSize = MaxProviderBatch
	}
	return &Batcher{
		provider:  provider,
		batchSize: batchSize,
	}
}

// Provider returns the wrapped embedding provider
func (b *Batcher) Provider() Embedder {
	return b.provider
}

// Dimension returns the wrapped provider's embedding dimension
func (b *Batcher) Dimension() int {
	return b.provider.Dimension()
}

// EmbedTexts embeds texts preserving positions: result[i] always corresponds
// to texts[i]. Empty and whitespace-only texts yield zero vectors of the
// provider's dimension; an all-blank input yields all zero vectors without
// any provider call.
func (b *Batcher) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	dim := b.provider.Dimension()
	result := make([][]float32, len(texts))

	// Collect positions of texts that actually need encoding.
	positions := make([]int, 0, len(texts))
	nonBlank := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			result[i] = make([]float32, dim)
			continue
		}
		positions = append(positions, i)
		nonBlank = append(nonBlank, text)
	}

	if len(nonBlank) == 0 {
		return result, nil
	}

	for start := 0; start < len(nonBlank); start += b.batchSize {
		end := start + b.batchSize
		if end > len(nonBlank) {
			end = len(nonBlank)
		}

		resp, err := b.provider.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: nonBlank[start:end]})
		if err != nil {
			return nil, fmt.Errorf("%w: batch [%d:%d]: %v", ErrProviderFailed, start, end, err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("%w: batch [%d:%d]: expected %d embeddings, got %d",
				ErrProviderFailed, start, end, end-start, len(resp.Embeddings))
		}

		for j, emb := range resp.Embeddings {
			result[positions[start+j]] = NormalizeVector(emb.Vector)
		}
	}

	return result, nil
}

// EmbedText embeds a single text, returning a zero vector for blank input
func (b *Batcher) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := b.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
