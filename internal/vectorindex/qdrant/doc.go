// Package qdrant implements the vector index contract against the Qdrant
// REST API.
//
// Connect validates the target address and performs a liveness probe before
// returning a client; every subsequent call is a single bounded HTTP request
// with no client-side retries. Collections are created with cosine distance,
// upserts wait for index acknowledgment, and search filters translate to
// Qdrant must-match clauses.
package qdrant
