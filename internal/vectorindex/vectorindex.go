package vectorindex

import (
	"context"
	"errors"

	"github.com/tradekb/tradekb/pkg/types"
)

// Common errors
var (
	ErrConnectionFailed = errors.New("vector index connection failed")
	ErrCollectionFailed = errors.New("collection operation failed")
	ErrUpsertFailed     = errors.New("upsert failed")
	ErrSearchFailed     = errors.New("search failed")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Filters is a conjunctive exact-match predicate over payload fields:
// a point matches only if every listed field equals its value.
type Filters map[string]any

// CollectionInfo describes a collection's state
type CollectionInfo struct {
	Name       string
	VectorSize int
	PointCount int64
	Status     string
}

// Index is the vector storage contract shared by the remote Qdrant adapter
// and the embedded SQLite adapter. All write paths are batch-atomic from the
// caller's perspective: Upsert either acknowledges the whole batch or fails.
type Index interface {
	// RecreateCollection destructively creates or replaces a collection
	// with the given vector dimensionality and cosine distance.
	RecreateCollection(ctx context.Context, name string, vectorSize int) error

	// Upsert writes paired (vector, payload) points. Requires
	// len(vectors) == len(payloads); the length check happens before any
	// I/O is attempted.
	Upsert(ctx context.Context, name string, vectors [][]float32, payloads []types.Payload) error

	// Search returns at most topK results ordered by descending cosine
	// similarity, optionally restricted by conjunctive equality filters.
	Search(ctx context.Context, name string, vector []float32, topK int, filters Filters) ([]types.QueryResult, error)

	// CollectionInfo reports collection metadata; fails loudly if the
	// collection does not exist.
	CollectionInfo(ctx context.Context, name string) (*CollectionInfo, error)

	// DeleteCollection removes a collection and all its points.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases the underlying connection or file handle.
	Close() error
}
