package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tradekb/tradekb/pkg/types"
)

const (
	// DefaultMaxWords is the default maximum word count per chunk
	DefaultMaxWords = 1000

	// DefaultOverlapWords is the default number of words shared between
	// consecutive chunks
	DefaultOverlapWords = 200

	// DefaultMinWords is the default minimum word count for a chunk to be kept
	DefaultMinWords = 10
)

// ErrInvalidConfig indicates the chunking options violate their preconditions
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// Options controls the word-window geometry
type Options struct {
	// MaxWords is the maximum number of words per chunk. Must be positive.
	MaxWords int

	// OverlapWords is the number of trailing words each chunk shares with
	// the next one. Must satisfy 0 <= OverlapWords < MaxWords.
	OverlapWords int

	// MinWords is the minimum word count for a chunk to be emitted.
	// Only the final window can fall below it.
	MinWords int
}

// DefaultOptions returns the standard chunking geometry
func DefaultOptions() Options {
	return Options{
		MaxWords:     DefaultMaxWords,
		OverlapWords: DefaultOverlapWords,
		MinWords:     DefaultMinWords,
	}
}

// Chunker splits document text into overlapping word windows
type Chunker struct {
	opts Options
}

// New creates a Chunker, validating the window geometry
func New(opts Options) (*Chunker, error) {
	if opts.MaxWords <= 0 {
		return nil, fmt.Errorf("%w: max words must be positive, got %d", ErrInvalidConfig, opts.MaxWords)
	}
	if opts.OverlapWords < 0 {
		return nil, fmt.Errorf("%w: overlap words must be non-negative, got %d", ErrInvalidConfig, opts.OverlapWords)
	}
	if opts.OverlapWords >= opts.MaxWords {
		return nil, fmt.Errorf("%w: overlap words (%d) must be less than max words (%d)",
			ErrInvalidConfig, opts.OverlapWords, opts.MaxWords)
	}
	if opts.MinWords < 0 {
		return nil, fmt.Errorf("%w: min words must be non-negative, got %d", ErrInvalidConfig, opts.MinWords)
	}
	return &Chunker{opts: opts}, nil
}

// Chunk splits text into overlapping word windows tagged with meta.
// Splitting is whitespace-insensitive: any run of whitespace is a single
// separator, so chunk text is always single-space joined. Returns an empty
// slice for text that is empty or shorter than the minimum word count.
func (c *Chunker) Chunk(text string, meta types.SourceMeta) []types.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) < c.opts.MinWords {
		return nil
	}

	chunks := make([]types.Chunk, 0, 1+len(words)/c.windowStride())

	start := 0
	for start < len(words) {
		end := start + c.opts.MaxWords
		if end > len(words) {
			end = len(words)
		}

		// Only the final, smallest window can fall short of MinWords;
		// dropping it does not disturb prior indices.
		if end-start >= c.opts.MinWords {
			chunks = append(chunks, types.Chunk{
				Text:       strings.Join(words[start:end], " "),
				ChunkIndex: len(chunks),
				WordCount:  end - start,
				Meta:       meta,
			})
		}

		if end == len(words) {
			break
		}

		start = end - c.opts.OverlapWords
		if start < 0 {
			start = 0
		}
	}

	return chunks
}

func (c *Chunker) windowStride() int {
	stride := c.opts.MaxWords - c.opts.OverlapWords
	if stride < 1 {
		stride = 1
	}
	return stride
}
