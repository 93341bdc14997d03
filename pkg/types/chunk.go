package types

import (
	"errors"
	"strings"
)

// Chunk represents one overlapping word-window cut from a document's text.
// Chunks are immutable once created: the chunker produces them, the payload
// builder consumes them.
type Chunk struct {
	// Text is the chunk content, whitespace-normalized (single spaces
	// between words, trimmed).
	Text string

	// ChunkIndex is the 0-based position of this chunk within its source
	// document. Indices of emitted chunks are always contiguous.
	ChunkIndex int

	// WordCount is the number of whitespace-separated words in Text.
	WordCount int

	// Meta identifies the source document this chunk was cut from.
	Meta SourceMeta
}

// Validate checks the chunk invariants.
func (c *Chunk) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return errors.New("chunk text cannot be empty")
	}
	if c.ChunkIndex < 0 {
		return errors.New("chunk index must be non-negative")
	}
	if c.WordCount <= 0 {
		return errors.New("word count must be positive")
	}
	if c.Meta == nil {
		return errors.New("chunk metadata is required")
	}
	return nil
}
