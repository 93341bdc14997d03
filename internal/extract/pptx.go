package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tradekb/tradekb/pkg/types"
)

var slideNamePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PPTX extracts per-slide text plus deck metadata from a slide deck
func PPTX(path string, ref types.FileRef) (string, types.SourceMeta, error) {
	zr, err := openArchive(path)
	if err != nil {
		return "", nil, err
	}
	defer func() {
		_ = zr.Close()
	}()

	// Slide entries carry no ordering guarantee inside the archive.
	slides := make(map[int][]byte)
	var numbers []int
	for _, file := range zr.File {
		m := slideNamePattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		data, _, err := readArchiveFile(zr, file.Name)
		if err != nil {
			return "", nil, err
		}
		slides[n] = data
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var parts []string
	for _, n := range numbers {
		text, err := slideText(slides[n])
		if err != nil {
			return "", nil, fmt.Errorf("%w: parse slide %d of %s: %v", ErrExtractionFailed, n, path, err)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	core := readCoreProperties(zr)
	meta := types.SlideMeta{
		FileRef:    ref,
		SlideCount: len(numbers),
		Title:      core.Title,
		Author:     core.Creator,
	}

	return strings.Join(parts, "\n\n"), meta, nil
}

// slideText collects the character data of every a:t element in a slide,
// one line per text run. Walking the token stream avoids modeling the full
// DrawingML shape tree.
func slideText(data []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var lines []string
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				if text := strings.TrimSpace(string(t)); text != "" {
					lines = append(lines, text)
				}
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
