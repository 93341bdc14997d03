package payload

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tradekb/tradekb/pkg/types"
)

// fingerprintRunes is how much of the chunk text feeds the content hash.
// Chunks whose first 64 runes match and that share a class and position get
// the same ID; this is a known limitation accepted for ID stability.
const fingerprintRunes = 64

// ErrInvalidInput indicates the payload builder was given unusable inputs
var ErrInvalidInput = errors.New("invalid payload input")

// Build constructs the stored payload for one chunk. The ID is deterministic:
// the same (class, index, content) triple always produces the same ID, so
// re-ingesting unchanged content overwrites in place instead of duplicating.
func Build(meta types.SourceMeta, text string, localIndex int) (types.Payload, error) {
	if meta == nil {
		return types.Payload{}, fmt.Errorf("%w: metadata is required", ErrInvalidInput)
	}
	if localIndex < 0 {
		return types.Payload{}, fmt.Errorf("%w: chunk index must be non-negative, got %d", ErrInvalidInput, localIndex)
	}

	classID := meta.ClassID()
	if classID == "" {
		classID = "unknown"
	}

	return types.Payload{
		ID:         DeriveID(classID, localIndex, text),
		ClassID:    classID,
		Source:     meta.Source(),
		FileName:   meta.FileName(),
		FilePath:   meta.FilePath(),
		ChunkIndex: localIndex,
		WordCount:  len(strings.Fields(text)),
		Text:       text,
		TextLength: len(text),
		Extra:      meta.Fields(),
	}, nil
}

// FromChunk builds the payload for a chunk produced by the chunker. The
// chunk's invariants are checked first; a violation means the chunker
// upstream is broken, not that the document is bad.
func FromChunk(chunk types.Chunk) (types.Payload, error) {
	if err := chunk.Validate(); err != nil {
		return types.Payload{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return Build(chunk.Meta, chunk.Text, chunk.ChunkIndex)
}

// DeriveID computes the deterministic point ID for a chunk: the first 16 hex
// digits of SHA-1 over "{classID}-{index}-{fingerprint}", parsed as a uint64,
// where fingerprint is the first 8 hex digits of SHA-1 over the first 64
// runes of the text.
func DeriveID(classID string, localIndex int, text string) uint64 {
	fingerprint := sha1Hex(truncateRunes(text, fingerprintRunes))[:8]
	digest := sha1Hex(fmt.Sprintf("%s-%d-%s", classID, localIndex, fingerprint))

	id, err := strconv.ParseUint(digest[:16], 16, 64)
	if err != nil {
		// Unreachable: 16 hex digits always parse.
		panic(err)
	}
	return id
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
