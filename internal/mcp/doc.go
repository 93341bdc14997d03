// Package mcp exposes the knowledge-base pipeline over the Model Context
// Protocol. Three tools are registered on a stdio server:
//
//   - ingest_documents: rebuild a collection from a document source tree,
//     optionally as a dry run that writes nothing
//   - query_knowledge: semantic search returning ranked chunks with scores,
//     source metadata and per-call statistics
//   - collection_status: point count, vector size and health of a collection
//
// One embedding batcher backs both the ingestion orchestrator and the
// retriever, so the embedding cache is shared between the write and read
// paths. Tool errors carry JSON-RPC style codes; parameter validation
// failures are reported with the offending parameter name.
package mcp
