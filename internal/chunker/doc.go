// Package chunker splits document text into overlapping word windows for
// embedding and retrieval.
//
// Splitting is word-based, not character-based: text is tokenized on any run
// of whitespace, and each chunk covers a half-open window of words
// [start, min(start+MaxWords, W)). Consecutive windows share OverlapWords
// words so that sentences crossing a boundary are retrievable from either
// side.
//
// # Basic Usage
//
//	c, err := chunker.New(chunker.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	chunks := c.Chunk(text, types.TranscriptMeta{
//	    FileRef: types.FileRef{Class: "class_01", Name: "lesson.txt"},
//	})
//
// # Window Geometry
//
// Given W words, windows advance as start = end - OverlapWords (clamped to
// zero) until a window's end reaches W. Emitted chunks carry contiguous
// 0-based indices. A final window shorter than MinWords is dropped without
// renumbering prior chunks; a whole document shorter than MinWords yields no
// chunks at all.
//
// Chunking is deterministic and whitespace-insensitive: the same logical word
// sequence always produces the same chunks regardless of how the source text
// was spaced or line-wrapped.
package chunker
