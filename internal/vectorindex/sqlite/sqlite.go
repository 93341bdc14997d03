package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/pkg/types"
)

// DriverName is the pure Go SQLite driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// Store keeps (vector, payload) points in an embedded SQLite database. It
// implements the same contract as the remote Qdrant adapter and exists for
// offline ingestion runs and tests; similarity is computed with a full scan
// in Go, so it is only suitable for modest collection sizes.
type Store struct {
	db *sql.DB
}

var _ vectorindex.Index = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	vector_size INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS points (
	collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
	id INTEGER NOT NULL,
	vector BLOB NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_points_collection ON points(collection);
`

// Open opens or creates the database at dbPath. Use ":memory:" for an
// ephemeral store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", vectorindex.ErrConnectionFailed, dbPath, err)
	}

	// Single writer; WAL for concurrent readers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable WAL: %v", vectorindex.ErrConnectionFailed, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable foreign keys: %v", vectorindex.ErrConnectionFailed, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", vectorindex.ErrConnectionFailed, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// RecreateCollection drops any existing collection of this name and creates
// it fresh with the given dimensionality.
func (s *Store) RecreateCollection(ctx context.Context, name string, vectorSize int) error {
	if vectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive, got %d", vectorindex.ErrCollectionFailed, vectorSize)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", vectorindex.ErrCollectionFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM points WHERE collection = ?", name); err != nil {
		return fmt.Errorf("%w: clear points: %v", vectorindex.ErrCollectionFailed, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name); err != nil {
		return fmt.Errorf("%w: clear collection: %v", vectorindex.ErrCollectionFailed, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO collections (name, vector_size) VALUES (?, ?)", name, vectorSize); err != nil {
		return fmt.Errorf("%w: create collection: %v", vectorindex.ErrCollectionFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", vectorindex.ErrCollectionFailed, err)
	}
	return nil
}

// Upsert writes paired points inside one transaction. The length check
// happens before touching the database.
func (s *Store) Upsert(ctx context.Context, name string, vectors [][]float32, payloads []types.Payload) error {
	if len(vectors) != len(payloads) {
		return fmt.Errorf("%w: %d vectors but %d payloads", vectorindex.ErrUpsertFailed, len(vectors), len(payloads))
	}
	if len(vectors) == 0 {
		return nil
	}

	size, err := s.collectionSize(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorindex.ErrUpsertFailed, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", vectorindex.ErrUpsertFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (collection, id, vector, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET vector = excluded.vector, payload = excluded.payload
	`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", vectorindex.ErrUpsertFailed, err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range vectors {
		if payloads[i].ID == 0 {
			return fmt.Errorf("%w: payload %d has no id", vectorindex.ErrUpsertFailed, i)
		}
		if len(vectors[i]) != size {
			return fmt.Errorf("%w: vector %d has dimension %d, collection expects %d",
				vectorindex.ErrUpsertFailed, i, len(vectors[i]), size)
		}

		payloadJSON, err := json.Marshal(payloads[i].ToMap())
		if err != nil {
			return fmt.Errorf("%w: marshal payload %d: %v", vectorindex.ErrUpsertFailed, i, err)
		}

		if _, err := stmt.ExecContext(ctx, name, int64(payloads[i].ID),
			serializeVector(vectors[i]), string(payloadJSON)); err != nil {
			return fmt.Errorf("%w: write point %d: %v", vectorindex.ErrUpsertFailed, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", vectorindex.ErrUpsertFailed, err)
	}
	return nil
}

// Search scans the collection, scores every point by cosine similarity, and
// returns the topK best matches in descending score order.
func (s *Store) Search(ctx context.Context, name string, vector []float32, topK int, filters vectorindex.Filters) ([]types.QueryResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", vectorindex.ErrInvalidArgument, topK)
	}
	if _, err := s.collectionSize(ctx, name); err != nil {
		return nil, fmt.Errorf("%w: %v", vectorindex.ErrSearchFailed, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, vector, payload FROM points WHERE collection = ?", name)
	if err != nil {
		return nil, fmt.Errorf("%w: query points: %v", vectorindex.ErrSearchFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []types.QueryResult
	for rows.Next() {
		var id int64
		var blob []byte
		var payloadJSON string
		if err := rows.Scan(&id, &blob, &payloadJSON); err != nil {
			return nil, fmt.Errorf("%w: scan point: %v", vectorindex.ErrSearchFailed, err)
		}

		var record map[string]any
		if err := json.Unmarshal([]byte(payloadJSON), &record); err != nil {
			return nil, fmt.Errorf("%w: decode payload: %v", vectorindex.ErrSearchFailed, err)
		}
		if !matchesFilters(record, filters) {
			continue
		}

		stored := deserializeVector(blob)
		if len(stored) != len(vector) {
			continue
		}

		payload := types.PayloadFromMap(record)
		payload.ID = uint64(id)
		candidates = append(candidates, types.QueryResult{
			Score:   cosineSimilarity(vector, stored),
			Payload: payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", vectorindex.ErrSearchFailed, err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// CollectionInfo reports the collection's dimensionality and point count
func (s *Store) CollectionInfo(ctx context.Context, name string) (*vectorindex.CollectionInfo, error) {
	size, err := s.collectionSize(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectorindex.ErrCollectionFailed, err)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM points WHERE collection = ?", name).Scan(&count); err != nil {
		return nil, fmt.Errorf("%w: count points: %v", vectorindex.ErrCollectionFailed, err)
	}

	return &vectorindex.CollectionInfo{
		Name:       name,
		VectorSize: size,
		PointCount: count,
		Status:     "green",
	}, nil
}

// DeleteCollection removes the collection and its points; deleting a missing
// collection is an error.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", vectorindex.ErrCollectionFailed, name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", vectorindex.ErrCollectionFailed, name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: collection %s does not exist", vectorindex.ErrCollectionFailed, name)
	}
	return nil
}

func (s *Store) collectionSize(ctx context.Context, name string) (int, error) {
	var size int
	err := s.db.QueryRowContext(ctx,
		"SELECT vector_size FROM collections WHERE name = ?", name).Scan(&size)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("collection %s does not exist", name)
	}
	if err != nil {
		return 0, err
	}
	return size, nil
}

// matchesFilters applies conjunctive equality filters against a decoded
// payload record. JSON numbers decode as float64, so numeric filter values
// are compared through float64.
func matchesFilters(record map[string]any, filters vectorindex.Filters) bool {
	for field, want := range filters {
		got, ok := record[field]
		if !ok || !equalValue(got, want) {
			return false
		}
	}
	return true
}

func equalValue(got, want any) bool {
	if gf, ok := toFloat(got); ok {
		if wf, ok := toFloat(want); ok {
			return gf == wf
		}
		return false
	}
	return got == want
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
