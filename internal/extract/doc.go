// Package extract turns source documents into plain text plus
// format-specific metadata.
//
// Four formats are supported, dispatched by extension: plain-text
// transcripts, PDF (via github.com/ledongthuc/pdf), and the OOXML pair DOCX
// and PPTX, read directly as ZIP archives with targeted XML parsing of
// word/document.xml and ppt/slides/slideN.xml. Document properties (title,
// author, page/slide/paragraph counts) ride along in the returned metadata
// variant.
//
// Extraction is deliberately lossy: layout, styling, and embedded media are
// discarded, table cells are flattened with " | " separators. A file that
// parses but contains no text yields an empty string without an error; the
// ingestion layer decides what to do with empty documents.
package extract
