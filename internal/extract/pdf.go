package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tradekb/tradekb/pkg/types"
)

// PDF extracts plain text and document metadata from a PDF file
func PDF(path string, ref types.FileRef) (string, types.SourceMeta, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: open pdf %s: %v", ErrExtractionFailed, path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	meta := types.PDFMeta{
		FileRef:   ref,
		PageCount: reader.NumPage(),
	}
	if info := reader.Trailer().Key("Info"); !info.IsNull() {
		meta.Title = strings.TrimSpace(info.Key("Title").RawString())
		meta.Author = strings.TrimSpace(info.Key("Author").RawString())
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", nil, fmt.Errorf("%w: extract pdf text %s: %v", ErrExtractionFailed, path, err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return "", nil, fmt.Errorf("%w: read pdf text %s: %v", ErrExtractionFailed, path, err)
	}

	return string(text), meta, nil
}
