package integration

import (
	"archive/zip"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tradekb/tradekb/internal/chunker"
	"github.com/tradekb/tradekb/internal/embedder"
	"github.com/tradekb/tradekb/internal/ingest"
	"github.com/tradekb/tradekb/internal/retriever"
	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/internal/vectorindex/sqlite"
	"github.com/tradekb/tradekb/pkg/types"
)

// PipelineTestSuite exercises the full write and read path against the
// embedded index: discover, extract, chunk, embed, upsert, then query.
type PipelineTestSuite struct {
	suite.Suite

	root      string
	index     *sqlite.Store
	batcher   *embedder.Batcher
	orch      *ingest.Orchestrator
	retriever *retriever.Retriever
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func (s *PipelineTestSuite) SetupTest() {
	provider, err := embedder.NewLocalProvider(nil)
	s.Require().NoError(err)
	s.batcher = embedder.NewBatcher(provider, 8)

	s.index, err = sqlite.Open(filepath.Join(s.T().TempDir(), "index.db"))
	s.Require().NoError(err)

	ch, err := chunker.New(chunker.Options{MaxWords: 25, OverlapWords: 5, MinWords: 1})
	s.Require().NoError(err)

	s.orch = ingest.New(s.batcher, s.index, ch, log.New(io.Discard, "", 0))
	s.retriever = retriever.New(s.batcher, s.index)
	s.root = s.buildTree()
}

func (s *PipelineTestSuite) TearDownTest() {
	s.NoError(s.index.Close())
}

func (s *PipelineTestSuite) buildTree() string {
	root := s.T().TempDir()

	s.writeFile(filepath.Join(root, "Video 01 - Risk Management.txt"),
		"risk management begins with position sizing and a hard stop on every single trade no exceptions ever")
	s.writeFile(filepath.Join(root, "Video 02 - Entry Signals.txt"),
		"wait for volume confirmation and a clean break of structure before entering any position at all")
	s.writeDOCX(filepath.Join(root, "Video 01 - Risk Management", "sizing_cheatsheet.docx"),
		"position size equals account risk divided by stop distance in dollars")
	s.writeDOCX(filepath.Join(root, "templates", "swing_trade.docx"),
		"ticker entry price stop loss target thesis and post trade review")

	return root
}

func (s *PipelineTestSuite) writeFile(path, content string) {
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
}

func (s *PipelineTestSuite) writeDOCX(path, paragraph string) {
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	s.Require().NoError(err)
	defer func() { _ = f.Close() }()

	document := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>` + paragraph + `</w:t></w:r></w:p></w:body></w:document>`

	w := zip.NewWriter(f)
	entry, err := w.Create("word/document.xml")
	s.Require().NoError(err)
	_, err = entry.Write([]byte(document))
	s.Require().NoError(err)
	s.Require().NoError(w.Close())
}

func (s *PipelineTestSuite) ingest() *ingest.Stats {
	stats, err := s.orch.Run(context.Background(), s.root, ingest.Config{Collection: "kb"})
	s.Require().NoError(err)
	return stats
}

func (s *PipelineTestSuite) TestIngestThenQuery() {
	stats := s.ingest()

	s.Equal(ingest.StatusSuccess, stats.Status)
	s.Equal(4, stats.TotalFiles)
	s.Equal(4, stats.ProcessedFiles)
	s.Equal(stats.TotalBatches, stats.SuccessfulBatches)

	ctx := context.Background()
	info, err := s.index.CollectionInfo(ctx, "kb")
	s.Require().NoError(err)
	s.EqualValues(stats.TotalChunks, info.PointCount)

	// Querying with a chunk's own text ranks that chunk first.
	question := "position size equals account risk divided by stop distance in dollars"
	results, err := s.retriever.Query(ctx, "kb", question, 3, nil)
	s.Require().NoError(err)
	s.Require().NotEmpty(results)
	s.Equal("sizing_cheatsheet.docx", results[0].Payload.FileName)
	s.Equal(types.SourceDoc, results[0].Payload.Source)

	for i := 1; i < len(results); i++ {
		s.GreaterOrEqual(results[i-1].Score, results[i].Score)
	}
}

func (s *PipelineTestSuite) TestFilteredQuery() {
	s.ingest()
	ctx := context.Background()

	results, _, err := s.retriever.QueryWithStats(ctx, "kb", "trade plan", 20,
		vectorindex.Filters{"class_id": ingest.TemplateClassID})
	s.Require().NoError(err)
	s.Require().NotEmpty(results)
	for _, res := range results {
		s.Equal(ingest.TemplateClassID, res.Payload.ClassID)
		s.Equal(types.SourceTemplate, res.Payload.Source)
		s.Equal("high", res.Payload.Extra["priority"])
	}

	empty, err := s.retriever.Query(ctx, "kb", "trade plan", 20,
		vectorindex.Filters{"class_id": "no_such_class"})
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *PipelineTestSuite) TestReingestReplaces() {
	first := s.ingest()
	second := s.ingest()

	s.Equal(first.TotalChunks, second.TotalChunks)

	info, err := s.index.CollectionInfo(context.Background(), "kb")
	s.Require().NoError(err)
	s.EqualValues(second.TotalChunks, info.PointCount)
}

func (s *PipelineTestSuite) TestDropCollection() {
	s.ingest()
	ctx := context.Background()

	s.Require().NoError(s.index.DeleteCollection(ctx, "kb"))
	_, err := s.index.CollectionInfo(ctx, "kb")
	s.Error(err)
}
