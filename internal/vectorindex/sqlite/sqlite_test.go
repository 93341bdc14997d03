package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedCollection(t *testing.T, store *Store, name string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.RecreateCollection(ctx, name, 3))

	vectors := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	payloads := []types.Payload{
		{ID: 1, ClassID: "class_01", Source: "transcript", Text: "exact match"},
		{ID: 2, ClassID: "class_01", Source: "pdf", Text: "near match"},
		{ID: 3, ClassID: "class_02", Source: "transcript", Text: "orthogonal"},
		{ID: 4, ClassID: "class_02", Source: "pdf", Text: "other axis"},
	}
	require.NoError(t, store.Upsert(ctx, name, vectors, payloads))
}

func TestRecreateCollection(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecreateCollection(ctx, "lessons", 3))

	info, err := store.CollectionInfo(ctx, "lessons")
	require.NoError(t, err)
	assert.Equal(t, 3, info.VectorSize)
	assert.Zero(t, info.PointCount)
}

func TestRecreateCollectionWipesPoints(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCollection(t, store, "lessons")

	require.NoError(t, store.RecreateCollection(ctx, "lessons", 3))

	info, err := store.CollectionInfo(ctx, "lessons")
	require.NoError(t, err)
	assert.Zero(t, info.PointCount, "recreate is destructive")
}

func TestRecreateCollectionInvalidSize(t *testing.T) {
	store := openTestStore(t)
	err := store.RecreateCollection(context.Background(), "lessons", 0)
	assert.ErrorIs(t, err, vectorindex.ErrCollectionFailed)
}

func TestUpsertLengthMismatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.RecreateCollection(ctx, "lessons", 3))

	err := store.Upsert(ctx, "lessons", [][]float32{{1, 0, 0}}, nil)
	assert.ErrorIs(t, err, vectorindex.ErrUpsertFailed)
}

func TestUpsertDimensionMismatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.RecreateCollection(ctx, "lessons", 3))

	err := store.Upsert(ctx, "lessons", [][]float32{{1, 0}}, []types.Payload{{ID: 1}})
	assert.ErrorIs(t, err, vectorindex.ErrUpsertFailed)
}

func TestUpsertReplacesByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.RecreateCollection(ctx, "lessons", 3))

	first := []types.Payload{{ID: 9, ClassID: "class_01", Text: "original"}}
	require.NoError(t, store.Upsert(ctx, "lessons", [][]float32{{1, 0, 0}}, first))

	second := []types.Payload{{ID: 9, ClassID: "class_01", Text: "replaced"}}
	require.NoError(t, store.Upsert(ctx, "lessons", [][]float32{{1, 0, 0}}, second))

	info, err := store.CollectionInfo(ctx, "lessons")
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.PointCount)

	results, err := store.Search(ctx, "lessons", []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "replaced", results[0].Payload.Text)
}

func TestSearchRanking(t *testing.T) {
	store := openTestStore(t)
	seedCollection(t, store, "lessons")

	results, err := store.Search(context.Background(), "lessons", []float32{1, 0, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, uint64(1), results[0].Payload.ID)
	assert.Equal(t, uint64(2), results[1].Payload.ID)
	for i := 1; i < len(results); i++ {
		assert.Greater(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchTopKTruncation(t *testing.T) {
	store := openTestStore(t)
	seedCollection(t, store, "lessons")

	results, err := store.Search(context.Background(), "lessons", []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchFilters(t *testing.T) {
	store := openTestStore(t)
	seedCollection(t, store, "lessons")
	ctx := context.Background()

	results, err := store.Search(ctx, "lessons", []float32{1, 0, 0}, 10,
		vectorindex.Filters{"class_id": "class_01"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "class_01", r.Payload.ClassID)
	}

	// Conjunctive: both fields must match.
	results, err = store.Search(ctx, "lessons", []float32{1, 0, 0}, 10,
		vectorindex.Filters{"class_id": "class_01", "source": "pdf"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(2), results[0].Payload.ID)
}

func TestSearchNoMatches(t *testing.T) {
	store := openTestStore(t)
	seedCollection(t, store, "lessons")

	results, err := store.Search(context.Background(), "lessons", []float32{1, 0, 0}, 10,
		vectorindex.Filters{"class_id": "class_99"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchInvalidTopK(t *testing.T) {
	store := openTestStore(t)
	seedCollection(t, store, "lessons")

	_, err := store.Search(context.Background(), "lessons", []float32{1, 0, 0}, 0, nil)
	assert.ErrorIs(t, err, vectorindex.ErrInvalidArgument)
}

func TestSearchMissingCollection(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Search(context.Background(), "ghost", []float32{1}, 5, nil)
	assert.ErrorIs(t, err, vectorindex.ErrSearchFailed)
}

func TestDeleteCollection(t *testing.T) {
	store := openTestStore(t)
	seedCollection(t, store, "lessons")
	ctx := context.Background()

	require.NoError(t, store.DeleteCollection(ctx, "lessons"))

	_, err := store.CollectionInfo(ctx, "lessons")
	assert.ErrorIs(t, err, vectorindex.ErrCollectionFailed)

	err = store.DeleteCollection(ctx, "lessons")
	assert.ErrorIs(t, err, vectorindex.ErrCollectionFailed)
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3.75, 0}
	assert.Equal(t, v, deserializeVector(serializeVector(v)))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}), "dimension mismatch scores zero")
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}), "zero vector scores zero")
}

func TestPayloadRoundTripThroughStore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.RecreateCollection(ctx, "lessons", 2))

	payload := types.Payload{
		ID:         123456789,
		ClassID:    "class_05",
		Source:     "pptx",
		FileName:   "deck.pptx",
		FilePath:   "/data/class_05/deck.pptx",
		ChunkIndex: 3,
		WordCount:  42,
		Text:       "slide content here",
		TextLength: 18,
		Extra:      map[string]any{"slide_count": 12},
	}
	require.NoError(t, store.Upsert(ctx, "lessons", [][]float32{{1, 0}}, []types.Payload{payload}))

	results, err := store.Search(ctx, "lessons", []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0].Payload
	assert.Equal(t, payload.ID, got.ID)
	assert.Equal(t, payload.ClassID, got.ClassID)
	assert.Equal(t, payload.ChunkIndex, got.ChunkIndex)
	assert.Equal(t, payload.Text, got.Text)
	assert.EqualValues(t, 12, got.Extra["slide_count"])
}
