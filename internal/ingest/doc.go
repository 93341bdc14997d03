// Package ingest rebuilds a vector collection from a document source tree.
//
// A source tree has two channels: top-level transcript .txt files, each
// optionally paired with a same-named directory of PDF/PPTX/DOCX
// attachments sharing the transcript's class ID, and a templates/ directory
// of trade template documents ingested under a fixed class.
//
// A run is destructive by design: the target collection is recreated before
// any writes, making ingestion idempotent by replacement rather than
// incremental by merge. Failure handling is tiered — a document that fails
// extraction or yields no text is logged and skipped, a batch that fails
// embedding or upsert is logged and skipped, and only setup errors
// (collection recreate, tree enumeration) abort the run. The returned Stats
// reports chunks produced, documents processed versus found, batch success
// counts, and a per-document outcome list.
package ingest
