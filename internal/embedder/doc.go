// Package embedder generates vector embeddings for document chunks and
// queries.
//
// Multiple providers are supported behind a single interface: OpenAI and
// Jina AI over their HTTP APIs, plus a deterministic local provider for
// offline use and tests. API providers retry with exponential backoff and
// cache results in an LRU keyed by content hash.
//
// # Provider Selection
//
//	emb, err := embedder.NewFromEnv()
//
// NewFromEnv honors TRADEKB_EMBEDDING_PROVIDER (openai, jina, local), then
// falls back to whichever API key is present, then to the local provider.
//
// # Batching
//
// The Batcher wraps a provider for pipeline use. Its output is positional:
// row i of the result always corresponds to texts[i], with blank texts
// mapped to zero vectors rather than dropped, so chunk/vector alignment
// survives sparse input. Non-blank texts are encoded in sub-batches
// (default 32) and L2-normalized for cosine similarity.
//
//	b := embedder.NewBatcher(emb, 32)
//	vectors, err := b.EmbedTexts(ctx, chunkTexts)
package embedder
