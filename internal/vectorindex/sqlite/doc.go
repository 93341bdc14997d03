// Package sqlite implements the vector index contract on an embedded SQLite
// database using the pure Go modernc.org/sqlite driver.
//
// Vectors are stored as little-endian float32 blobs and payloads as JSON.
// Search is a full scan with cosine similarity computed in Go, which keeps
// the adapter dependency-free of native code and is fast enough for local
// knowledge bases and tests. For large collections use the Qdrant adapter.
package sqlite
