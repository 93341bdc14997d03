package types

// Payload is the record stored alongside a vector in the index. Its ID is a
// pure function of (class ID, chunk position, content fingerprint), so
// re-ingesting identical content yields identical IDs and the upsert is
// idempotent. Payloads are created once at ingestion time and never mutated;
// a full re-ingestion replaces them wholesale.
type Payload struct {
	ID         uint64
	ClassID    string
	Source     string
	FileName   string
	FilePath   string
	ChunkIndex int
	WordCount  int
	Text       string
	TextLength int

	// Extra holds the format-specific metadata fields of the source
	// variant (page counts, titles, template flags, ...).
	Extra map[string]any
}

// Reserved payload keys; everything else round-trips through Extra.
var payloadKeys = map[string]bool{
	"id":          true,
	"class_id":    true,
	"source":      true,
	"file_name":   true,
	"file_path":   true,
	"chunk_index": true,
	"word_count":  true,
	"text":        true,
	"text_length": true,
}

// ToMap flattens the payload into the key/value record sent to the index.
// The ID is included in the record itself, matching the wire contract where
// every stored point carries its own id field.
func (p *Payload) ToMap() map[string]any {
	m := make(map[string]any, len(p.Extra)+9)
	for k, v := range p.Extra {
		m[k] = v
	}
	m["id"] = p.ID
	m["class_id"] = p.ClassID
	m["source"] = p.Source
	m["file_name"] = p.FileName
	if p.FilePath != "" {
		m["file_path"] = p.FilePath
	}
	m["chunk_index"] = p.ChunkIndex
	m["word_count"] = p.WordCount
	m["text"] = p.Text
	m["text_length"] = p.TextLength
	return m
}

// PayloadFromMap rebuilds a Payload from a raw key/value record returned by
// the index. JSON decoding yields float64 for every number, so numeric
// fields are coerced.
func PayloadFromMap(m map[string]any) Payload {
	p := Payload{
		ID:         asUint64(m["id"]),
		ClassID:    asString(m["class_id"]),
		Source:     asString(m["source"]),
		FileName:   asString(m["file_name"]),
		FilePath:   asString(m["file_path"]),
		ChunkIndex: asInt(m["chunk_index"]),
		WordCount:  asInt(m["word_count"]),
		Text:       asString(m["text"]),
		TextLength: asInt(m["text_length"]),
	}
	for k, v := range m {
		if payloadKeys[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}
	return p
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int:
		return uint64(n)
	case int64:
		return uint64(n)
	case float64:
		return uint64(n)
	}
	return 0
}
