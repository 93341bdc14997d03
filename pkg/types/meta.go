package types

// Source tags identify the document format a chunk originated from.
const (
	SourceTranscript = "transcript"
	SourcePDF        = "pdf"
	SourceSlides     = "pptx"
	SourceDoc        = "docx"
	SourceTemplate   = "trade_template"
)

// SourceMeta is the capability shared by all per-source metadata variants.
// The common fields identify the logical document a chunk came from; Fields
// returns the variant-specific extension fields (page counts, titles, ...)
// that get merged into the stored payload.
type SourceMeta interface {
	ClassID() string
	Source() string
	FileName() string
	FilePath() string
	Fields() map[string]any
}

// FileRef carries the common identification fields embedded by every
// metadata variant.
type FileRef struct {
	Class string
	Name  string
	Path  string
}

func (f FileRef) ClassID() string  { return f.Class }
func (f FileRef) FileName() string { return f.Name }
func (f FileRef) FilePath() string { return f.Path }

// TranscriptMeta describes a plain-text transcript file.
type TranscriptMeta struct {
	FileRef
	VideoNumber string
}

func (m TranscriptMeta) Source() string { return SourceTranscript }

func (m TranscriptMeta) Fields() map[string]any {
	fields := map[string]any{}
	if m.VideoNumber != "" {
		fields["video_number"] = m.VideoNumber
	}
	return fields
}

// PDFMeta describes a PDF attachment.
type PDFMeta struct {
	FileRef
	PageCount int
	Title     string
	Author    string
}

func (m PDFMeta) Source() string { return SourcePDF }

func (m PDFMeta) Fields() map[string]any {
	fields := map[string]any{"page_count": m.PageCount}
	if m.Title != "" {
		fields["title"] = m.Title
	}
	if m.Author != "" {
		fields["author"] = m.Author
	}
	return fields
}

// SlideMeta describes a slide-deck attachment.
type SlideMeta struct {
	FileRef
	SlideCount int
	Title      string
	Author     string
}

func (m SlideMeta) Source() string { return SourceSlides }

func (m SlideMeta) Fields() map[string]any {
	fields := map[string]any{"slide_count": m.SlideCount}
	if m.Title != "" {
		fields["title"] = m.Title
	}
	if m.Author != "" {
		fields["author"] = m.Author
	}
	return fields
}

// DocMeta describes a word-processor attachment.
type DocMeta struct {
	FileRef
	ParagraphCount int
	TableCount     int
	Title          string
	Author         string
}

func (m DocMeta) Source() string { return SourceDoc }

func (m DocMeta) Fields() map[string]any {
	fields := map[string]any{
		"paragraph_count": m.ParagraphCount,
		"table_count":     m.TableCount,
	}
	if m.Title != "" {
		fields["title"] = m.Title
	}
	if m.Author != "" {
		fields["author"] = m.Author
	}
	return fields
}

// TemplateMeta describes a trade-template document. Templates are ingested
// under a fixed class ID and flagged high priority for retrieval.
type TemplateMeta struct {
	FileRef
	TemplateName string
}

func (m TemplateMeta) Source() string { return SourceTemplate }

func (m TemplateMeta) Fields() map[string]any {
	return map[string]any{
		"template_name": m.TemplateName,
		"content_type":  "trade_template",
		"priority":      "high",
	}
}
