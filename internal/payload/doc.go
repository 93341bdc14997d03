// Package payload builds the stored records that accompany vectors in the
// index.
//
// Each payload carries the chunk text, its position within the source
// document, and the flattened source metadata. The point ID is a pure
// function of (class ID, chunk index, content fingerprint): re-ingesting
// identical content produces identical IDs, making upserts idempotent, while
// changed content produces new IDs.
//
// The content fingerprint covers only the first 64 runes of the chunk text.
// Two chunks at the same position whose first 64 runes coincide will collide;
// this is accepted in exchange for ID stability under trailing edits.
package payload
