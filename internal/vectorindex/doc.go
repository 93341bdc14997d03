// Package vectorindex defines the storage contract for embedded chunk
// vectors and their payloads.
//
// Two adapters implement the Index interface: vectorindex/qdrant speaks the
// Qdrant REST API for production use, and vectorindex/sqlite keeps points in
// an embedded SQLite database for offline and test use. Both store points
// addressed by 64-bit unsigned IDs, rank by cosine similarity, and support
// conjunctive exact-match filtering over payload fields.
package vectorindex
