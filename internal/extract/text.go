package extract

import (
	"fmt"
	"os"

	"github.com/tradekb/tradekb/pkg/types"
)

// Text reads a plain-text transcript file
func Text(path string, ref types.FileRef) (string, types.SourceMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: read %s: %v", ErrExtractionFailed, path, err)
	}
	return string(data), types.TranscriptMeta{FileRef: ref}, nil
}
