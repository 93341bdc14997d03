package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tradekb/tradekb/internal/extract"
	"github.com/tradekb/tradekb/pkg/types"
)

// TemplatesDirName is the subdirectory scanned for trade template documents
const TemplatesDirName = "templates"

// TemplateClassID groups all template chunks under one logical document
const TemplateClassID = "trade_templates"

// Document is one discovered source file awaiting extraction
type Document struct {
	Path        string
	Ref         types.FileRef
	Template    bool
	VideoNumber string
}

// Extract runs the per-format extractor and attaches the document's
// discovery context to the returned metadata.
func (d Document) Extract() (string, types.SourceMeta, error) {
	text, meta, err := extract.Extract(d.Path, d.Ref)
	if err != nil {
		return "", nil, err
	}

	if d.Template {
		return text, types.TemplateMeta{
			FileRef:      d.Ref,
			TemplateName: stem(d.Path),
		}, nil
	}

	if tm, ok := meta.(types.TranscriptMeta); ok && d.VideoNumber != "" {
		tm.VideoNumber = d.VideoNumber
		return text, tm, nil
	}
	return text, meta, nil
}

var digitsPattern = regexp.MustCompile(`\d+`)

// Discover enumerates the source tree's two channels: top-level transcript
// text files (each optionally paired with an attachment directory named
// after the transcript's stem) and a templates/ directory of trade template
// documents. Results are sorted for deterministic runs.
func Discover(root string) ([]Document, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read source tree %s: %w", root, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}

		path := filepath.Join(root, entry.Name())
		classID := classIDFromName(entry.Name())
		videoNumber := digitsPattern.FindString(stem(path))

		docs = append(docs, Document{
			Path:        path,
			Ref:         types.FileRef{Class: classID, Name: entry.Name(), Path: path},
			VideoNumber: videoNumber,
		})

		attachments, err := discoverAttachments(root, stem(path), classID)
		if err != nil {
			return nil, err
		}
		docs = append(docs, attachments...)
	}

	templates, err := discoverTemplates(root)
	if err != nil {
		return nil, err
	}
	docs = append(docs, templates...)

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// discoverAttachments lists supported documents in the transcript's sibling
// directory; a missing directory just means no attachments.
func discoverAttachments(root, dirName, classID string) ([]Document, error) {
	dir := filepath.Join(root, dirName)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read attachment dir %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".pdf" && ext != ".pptx" && ext != ".docx" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		docs = append(docs, Document{
			Path: path,
			Ref:  types.FileRef{Class: classID, Name: entry.Name(), Path: path},
		})
	}
	return docs, nil
}

func discoverTemplates(root string) ([]Document, error) {
	dir := filepath.Join(root, TemplatesDirName)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read templates dir %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !extract.Supported(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		docs = append(docs, Document{
			Path:     path,
			Ref:      types.FileRef{Class: TemplateClassID, Name: entry.Name(), Path: path},
			Template: true,
		})
	}
	return docs, nil
}

var nonIdentPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)

// classIDFromName derives the logical document identity from a transcript
// filename: "PTM Video 07 - Entries.txt" becomes "PTM_Video_07_Entries".
func classIDFromName(name string) string {
	base := stem(name)
	id := nonIdentPattern.ReplaceAllString(base, "_")
	return strings.Trim(id, "_")
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
