package payload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekb/tradekb/pkg/types"
)

func testMeta() types.SourceMeta {
	return types.TranscriptMeta{
		FileRef:     types.FileRef{Class: "class_03", Name: "video_07.txt", Path: "/data/class_03/video_07.txt"},
		VideoNumber: "07",
	}
}

func TestBuildPopulatesFields(t *testing.T) {
	p, err := Build(testMeta(), "hello world from the transcript", 2)
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.Equal(t, "class_03", p.ClassID)
	assert.Equal(t, types.SourceTranscript, p.Source)
	assert.Equal(t, "video_07.txt", p.FileName)
	assert.Equal(t, "/data/class_03/video_07.txt", p.FilePath)
	assert.Equal(t, 2, p.ChunkIndex)
	assert.Equal(t, 5, p.WordCount)
	assert.Equal(t, "hello world from the transcript", p.Text)
	assert.Equal(t, len("hello world from the transcript"), p.TextLength)
	assert.Equal(t, "07", p.Extra["video_number"])
}

func TestBuildInvalidInput(t *testing.T) {
	_, err := Build(nil, "text", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Build(testMeta(), "text", -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildDefaultsUnknownClass(t *testing.T) {
	meta := types.TranscriptMeta{FileRef: types.FileRef{Name: "orphan.txt"}}
	p, err := Build(meta, "some text", 0)
	require.NoError(t, err)
	assert.Equal(t, "unknown", p.ClassID)
}

func TestDeriveIDDeterministic(t *testing.T) {
	a := DeriveID("class_01", 3, "identical content")
	b := DeriveID("class_01", 3, "identical content")
	assert.Equal(t, a, b)
}

func TestDeriveIDVariesByInputs(t *testing.T) {
	base := DeriveID("class_01", 0, "some chunk text")

	assert.NotEqual(t, base, DeriveID("class_02", 0, "some chunk text"))
	assert.NotEqual(t, base, DeriveID("class_01", 1, "some chunk text"))
	assert.NotEqual(t, base, DeriveID("class_01", 0, "different chunk text"))
}

func TestDeriveIDFingerprintTruncation(t *testing.T) {
	// Only the first 64 runes feed the fingerprint, so texts diverging
	// beyond that collide at the same position.
	prefix := strings.Repeat("x", 64)
	a := DeriveID("class_01", 0, prefix+" tail one")
	b := DeriveID("class_01", 0, prefix+" completely different tail")
	assert.Equal(t, a, b)

	// Divergence within the first 64 runes separates them.
	c := DeriveID("class_01", 0, "y"+prefix[1:])
	assert.NotEqual(t, a, c)
}

func TestDeriveIDMultibyteTruncation(t *testing.T) {
	// Truncation counts runes, not bytes.
	prefix := strings.Repeat("é", 64)
	a := DeriveID("class_01", 0, prefix+"one")
	b := DeriveID("class_01", 0, prefix+"two")
	assert.Equal(t, a, b)
}

func TestFromChunkMatchesBuild(t *testing.T) {
	chunk := types.Chunk{
		Text:       "chunk text body",
		ChunkIndex: 4,
		WordCount:  3,
		Meta:       testMeta(),
	}

	fromChunk, err := FromChunk(chunk)
	require.NoError(t, err)

	direct, err := Build(chunk.Meta, chunk.Text, chunk.ChunkIndex)
	require.NoError(t, err)
	assert.Equal(t, direct, fromChunk)
}

func TestFromChunkRejectsMalformedChunk(t *testing.T) {
	valid := types.Chunk{Text: "body", ChunkIndex: 0, WordCount: 1, Meta: testMeta()}

	for name, mutate := range map[string]func(*types.Chunk){
		"blank text":       func(c *types.Chunk) { c.Text = "   " },
		"negative index":   func(c *types.Chunk) { c.ChunkIndex = -1 },
		"zero word count":  func(c *types.Chunk) { c.WordCount = 0 },
		"missing metadata": func(c *types.Chunk) { c.Meta = nil },
	} {
		chunk := valid
		mutate(&chunk)
		_, err := FromChunk(chunk)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestPayloadMapRoundTrip(t *testing.T) {
	p, err := Build(testMeta(), "round trip content", 1)
	require.NoError(t, err)

	m := p.ToMap()
	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, "class_03", m["class_id"])
	assert.Equal(t, "round trip content", m["text"])

	back := types.PayloadFromMap(m)
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, p.ClassID, back.ClassID)
	assert.Equal(t, p.ChunkIndex, back.ChunkIndex)
	assert.Equal(t, p.Text, back.Text)
	assert.Equal(t, "07", back.Extra["video_number"])
}
