package extract

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tradekb/tradekb/pkg/types"
)

// wordDocument mirrors the parts of word/document.xml we consume. Namespace
// prefixes are ignored by the decoder, so w:p matches "p".
type wordDocument struct {
	Body struct {
		Paragraphs []wordParagraph `xml:"p"`
		Tables     []wordTable     `xml:"tbl"`
	} `xml:"body"`
}

type wordParagraph struct {
	Runs []struct {
		Text []struct {
			Content string `xml:",chardata"`
		} `xml:"t"`
	} `xml:"r"`
}

type wordTable struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []wordParagraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

// DOCX extracts paragraph and table text plus document metadata from a
// word-processor file.
func DOCX(path string, ref types.FileRef) (string, types.SourceMeta, error) {
	zr, err := openArchive(path)
	if err != nil {
		return "", nil, err
	}
	defer func() {
		_ = zr.Close()
	}()

	data, found, err := readArchiveFile(zr, "word/document.xml")
	if err != nil {
		return "", nil, err
	}
	if !found {
		return "", nil, fmt.Errorf("%w: %s has no word/document.xml", ErrExtractionFailed, path)
	}

	var doc wordDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("%w: parse %s: %v", ErrExtractionFailed, path, err)
	}

	var parts []string
	for _, para := range doc.Body.Paragraphs {
		if text := paragraphText(para); text != "" {
			parts = append(parts, text)
		}
	}
	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var cellParts []string
				for _, para := range cell.Paragraphs {
					if text := paragraphText(para); text != "" {
						cellParts = append(cellParts, text)
					}
				}
				if len(cellParts) > 0 {
					cells = append(cells, strings.Join(cellParts, " "))
				}
			}
			if len(cells) > 0 {
				parts = append(parts, strings.Join(cells, " | "))
			}
		}
	}

	core := readCoreProperties(zr)
	meta := types.DocMeta{
		FileRef:        ref,
		ParagraphCount: len(doc.Body.Paragraphs),
		TableCount:     len(doc.Body.Tables),
		Title:          core.Title,
		Author:         core.Creator,
	}

	return strings.Join(parts, "\n\n"), meta, nil
}

func paragraphText(para wordParagraph) string {
	var sb strings.Builder
	for _, run := range para.Runs {
		for _, text := range run.Text {
			sb.WriteString(text.Content)
		}
	}
	return strings.TrimSpace(sb.String())
}
