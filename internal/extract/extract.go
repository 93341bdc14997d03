package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tradekb/tradekb/pkg/types"
)

// Common errors
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtractionFailed  = errors.New("text extraction failed")
)

// Supported reports whether a file's extension has a registered extractor
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".pdf", ".docx", ".pptx":
		return true
	}
	return false
}

// Extract dispatches on the file extension and returns the extracted text
// plus format-specific metadata. The returned text may be empty without an
// error: a parseable file with no textual content is not a failure.
func Extract(path string, ref types.FileRef) (string, types.SourceMeta, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return Text(path, ref)
	case ".pdf":
		return PDF(path, ref)
	case ".docx":
		return DOCX(path, ref)
	case ".pptx":
		return PPTX(path, ref)
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
