// Package types provides shared type definitions for the tradekb pipeline.
//
// This package defines the domain values that move between components:
// chunks produced by the chunker, per-source metadata variants, payloads
// stored in the vector index, query results returned by retrieval, and
// per-document ingestion outcomes.
//
// # Core Types
//
// Chunk is a bounded, overlapping word-window extracted from a document,
// the unit of embedding and retrieval:
//
//	chunk := types.Chunk{
//	    Text:       "...",
//	    ChunkIndex: 0,
//	    WordCount:  412,
//	    Meta:       meta,
//	}
//
// SourceMeta is the capability shared by all per-source metadata variants
// (TranscriptMeta, PDFMeta, SlideMeta, DocMeta, TemplateMeta). Each variant
// carries the common fields (class ID, source tag, file name) plus its
// format-specific extension fields.
//
// Payload is the record attached to a stored vector. Its ID is derived
// deterministically from the class ID, the chunk's position, and a content
// fingerprint, which makes upserts idempotent across re-ingestion runs.
//
// # Ingestion Outcomes
//
// DocumentOutcome makes skip-vs-abort semantics explicit in the type system
// instead of hiding them in error handling: a document that produced no text
// is recorded as skipped, not failed, and never aborts the run.
package types
