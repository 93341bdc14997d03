package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// coreProperties is the shared docProps/core.xml document metadata record
// used by both DOCX and PPTX packages.
type coreProperties struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
}

func openArchive(path string) (*zip.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive %s: %v", ErrExtractionFailed, path, err)
	}
	return zr, nil
}

func readArchiveFile(zr *zip.ReadCloser, name string) ([]byte, bool, error) {
	for _, file := range zr.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, true, fmt.Errorf("%w: open %s: %v", ErrExtractionFailed, name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, true, fmt.Errorf("%w: read %s: %v", ErrExtractionFailed, name, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// readCoreProperties parses docProps/core.xml; missing or malformed core
// properties are not an error, just absent metadata.
func readCoreProperties(zr *zip.ReadCloser) coreProperties {
	data, ok, err := readArchiveFile(zr, "docProps/core.xml")
	if !ok || err != nil {
		return coreProperties{}
	}

	var core coreProperties
	if err := xml.Unmarshal(data, &core); err != nil {
		return coreProperties{}
	}
	core.Title = strings.TrimSpace(core.Title)
	core.Creator = strings.TrimSpace(core.Creator)
	return core
}
