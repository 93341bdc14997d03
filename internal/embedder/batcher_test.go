package embedder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProvider wraps the local provider and records batch sizes.
type recordingProvider struct {
	*LocalProvider
	batches [][]string
	failOn  int // fail the nth call (1-based), 0 means never
	calls   int
}

func newRecordingProvider(t *testing.T) *recordingProvider {
	t.Helper()
	local, err := NewLocalProvider(nil)
	require.NoError(t, err)
	return &recordingProvider{LocalProvider: local}
}

func (r *recordingProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	r.calls++
	if r.failOn != 0 && r.calls == r.failOn {
		return nil, errors.New("simulated provider outage")
	}
	r.batches = append(r.batches, req.Texts)
	return r.LocalProvider.GenerateBatch(ctx, req)
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestEmbedTextsPreservesPositions(t *testing.T) {
	b := NewBatcher(newRecordingProvider(t), 32)

	vectors, err := b.EmbedTexts(context.Background(), []string{"", "hello", ""})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.Zero(t, vectorNorm(vectors[0]))
	assert.InDelta(t, 1.0, vectorNorm(vectors[1]), 1e-5)
	assert.Zero(t, vectorNorm(vectors[2]))

	for _, v := range vectors {
		assert.Len(t, v, LocalDimension)
	}
}

func TestEmbedTextsAllBlank(t *testing.T) {
	provider := newRecordingProvider(t)
	b := NewBatcher(provider, 32)

	vectors, err := b.EmbedTexts(context.Background(), []string{"", "   ", "\t\n"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Len(t, v, LocalDimension)
		assert.Zero(t, vectorNorm(v))
	}

	assert.Zero(t, provider.calls, "blank-only input must not hit the provider")
}

func TestEmbedTextsEmptyInput(t *testing.T) {
	b := NewBatcher(newRecordingProvider(t), 32)
	vectors, err := b.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedTextsSubBatches(t *testing.T) {
	provider := newRecordingProvider(t)
	b := NewBatcher(provider, 2)

	texts := []string{"one", "two", "three", "four", "five"}
	vectors, err := b.EmbedTexts(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 5)

	require.Len(t, provider.batches, 3)
	assert.Equal(t, []string{"one", "two"}, provider.batches[0])
	assert.Equal(t, []string{"three", "four"}, provider.batches[1])
	assert.Equal(t, []string{"five"}, provider.batches[2])
}

func TestEmbedTextsBlanksDoNotReachProvider(t *testing.T) {
	provider := newRecordingProvider(t)
	b := NewBatcher(provider, 10)

	_, err := b.EmbedTexts(context.Background(), []string{" ", "alpha", "", "beta"})
	require.NoError(t, err)

	require.Len(t, provider.batches, 1)
	assert.Equal(t, []string{"alpha", "beta"}, provider.batches[0])
}

func TestEmbedTextsDeterministic(t *testing.T) {
	b := NewBatcher(newRecordingProvider(t), 32)

	first, err := b.EmbedTexts(context.Background(), []string{"stable text"})
	require.NoError(t, err)
	second, err := b.EmbedTexts(context.Background(), []string{"stable text"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmbedTextsProviderFailure(t *testing.T) {
	provider := newRecordingProvider(t)
	provider.failOn = 1
	b := NewBatcher(provider, 2)

	_, err := b.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderFailed)
}

func TestEmbedTextDelegates(t *testing.T) {
	b := NewBatcher(newRecordingProvider(t), 32)

	v, err := b.EmbedText(context.Background(), "single query")
	require.NoError(t, err)
	assert.Len(t, v, LocalDimension)
	assert.InDelta(t, 1.0, vectorNorm(v), 1e-5)

	zero, err := b.EmbedText(context.Background(), "  ")
	require.NoError(t, err)
	assert.Zero(t, vectorNorm(zero))
}

func TestNewBatcherDefaultSize(t *testing.T) {
	b := NewBatcher(newRecordingProvider(t), 0)
	assert.Equal(t, DefaultBatchSize, b.batchSize)

	b = NewBatcher(newRecordingProvider(t), -5)
	assert.Equal(t, DefaultBatchSize, b.batchSize)
}

func TestNewBatcherClampsToProviderLimit(t *testing.T) {
	b := NewBatcher(newRecordingProvider(t), MaxProviderBatch+50)
	assert.Equal(t, MaxProviderBatch, b.batchSize)
}

func TestEmbedTextsOversizedBatchAgainstAPIProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.LessOrEqual(t, len(req.Input), MaxProviderBatch)

		type item struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]item, len(req.Input))
		for i := range req.Input {
			data[i] = item{Embedding: []float32{1, 0}, Index: i}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "model": req.Model})
	}))
	defer server.Close()

	p := newAPIProvider(ProviderOpenAI, server.URL, "test-key", DefaultOpenAIModel, OpenAIDimension, nil)
	b := NewBatcher(p, 150)

	texts := make([]string, 150)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}

	vectors, err := b.EmbedTexts(context.Background(), texts)
	require.NoError(t, err, "a configured batch size above the provider limit must still embed")
	assert.Len(t, vectors, 150)
}
