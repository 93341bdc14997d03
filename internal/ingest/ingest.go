package ingest

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tradekb/tradekb/internal/chunker"
	"github.com/tradekb/tradekb/internal/embedder"
	"github.com/tradekb/tradekb/internal/payload"
	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/pkg/types"
)

// DefaultBatchSize is the default number of chunks per embed/upsert batch
const DefaultBatchSize = 64

// Run status values
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
)

// Config controls one ingestion run
type Config struct {
	Collection string
	BatchSize  int  // chunks per embed/upsert batch (default 64)
	Workers    int  // concurrent batch workers (default: NumCPU)
	DryRun     bool // embed but skip all index writes
}

// Stats aggregates the outcome of one ingestion run
type Stats struct {
	RunID             string
	Status            string
	Message           string
	TotalChunks       int
	TotalFiles        int
	ProcessedFiles    int
	TotalBatches      int
	SuccessfulBatches int
	DryRun            bool
	Duration          time.Duration
	Outcomes          []types.DocumentOutcome
}

// Orchestrator drives a full rebuild of a collection from a source tree:
// discover documents, extract text, chunk, embed in batches, upsert.
type Orchestrator struct {
	batcher *embedder.Batcher
	index   vectorindex.Index
	chunker *chunker.Chunker
	logger  *log.Logger
}

// New creates an ingestion orchestrator. index may be nil only for dry runs.
func New(batcher *embedder.Batcher, index vectorindex.Index, ch *chunker.Chunker, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		batcher: batcher,
		index:   index,
		chunker: ch,
		logger:  logger,
	}
}

// Run rebuilds cfg.Collection from the document tree at root. The rebuild is
// destructive: the collection is recreated before any writes, so ingestion
// is idempotent by replacement. Document-level failures are downgraded to
// warnings; batch-level failures skip the batch and the run continues.
func (o *Orchestrator) Run(ctx context.Context, root string, cfg Config) (*Stats, error) {
	start := time.Now()
	stats := &Stats{
		RunID:  uuid.New().String(),
		DryRun: cfg.DryRun,
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if !cfg.DryRun {
		if o.index == nil {
			return nil, fmt.Errorf("%w: no index configured", vectorindex.ErrConnectionFailed)
		}
		if err := o.index.RecreateCollection(ctx, cfg.Collection, o.batcher.Dimension()); err != nil {
			return nil, fmt.Errorf("recreate collection %s: %w", cfg.Collection, err)
		}
	}

	docs, err := Discover(root)
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	stats.TotalFiles = len(docs)
	if len(docs) == 0 {
		stats.Status = StatusWarning
		stats.Message = "no documents found"
		stats.Duration = time.Since(start)
		return stats, nil
	}

	// Collect (text, payload) pairs across the whole tree before batching.
	var texts []string
	var payloads []types.Payload
	for _, doc := range docs {
		outcome := o.processDocument(doc, &texts, &payloads)
		stats.Outcomes = append(stats.Outcomes, outcome)
		if outcome.Status == types.OutcomeProcessed {
			stats.ProcessedFiles++
		}
	}
	stats.TotalChunks = len(texts)

	if len(texts) == 0 {
		stats.Status = StatusWarning
		stats.Message = "no chunks produced"
		stats.Duration = time.Since(start)
		return stats, nil
	}

	succeeded, attempted := o.runBatches(ctx, cfg, texts, payloads)
	stats.TotalBatches = attempted
	stats.SuccessfulBatches = succeeded

	stats.Status = StatusSuccess
	if succeeded < attempted {
		stats.Status = StatusWarning
		stats.Message = fmt.Sprintf("%d of %d batches failed", attempted-succeeded, attempted)
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

// processDocument extracts and chunks one document, appending its chunk
// texts and payloads. Extraction failures and empty documents never abort
// the run; they are reported through the returned outcome.
func (o *Orchestrator) processDocument(doc Document, texts *[]string, payloads *[]types.Payload) types.DocumentOutcome {
	outcome := types.DocumentOutcome{
		Path:    doc.Path,
		ClassID: doc.Ref.Class,
	}

	text, meta, err := doc.Extract()
	if err != nil {
		o.logger.Printf("WARN: extract %s: %v", doc.Path, err)
		outcome.Status = types.OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.Source = meta.Source()

	if strings.TrimSpace(text) == "" {
		o.logger.Printf("WARN: no text extracted from %s, skipping", doc.Path)
		outcome.Status = types.OutcomeSkipped
		outcome.Reason = "no text extracted"
		return outcome
	}

	chunks := o.chunker.Chunk(text, meta)
	if len(chunks) == 0 {
		o.logger.Printf("WARN: %s produced no chunks, skipping", doc.Path)
		outcome.Status = types.OutcomeSkipped
		outcome.Reason = "document below minimum chunk size"
		return outcome
	}

	for _, chunk := range chunks {
		p, err := payload.FromChunk(chunk)
		if err != nil {
			o.logger.Printf("WARN: build payload for %s chunk %d: %v", doc.Path, chunk.ChunkIndex, err)
			outcome.Status = types.OutcomeFailed
			outcome.Reason = err.Error()
			return outcome
		}
		*texts = append(*texts, chunk.Text)
		*payloads = append(*payloads, p)
	}

	outcome.Status = types.OutcomeProcessed
	outcome.Chunks = len(chunks)
	return outcome
}

// runBatches embeds and upserts fixed-size batches concurrently. A failing
// batch is logged and skipped; other batches proceed independently.
func (o *Orchestrator) runBatches(ctx context.Context, cfg Config, texts []string, payloads []types.Payload) (succeeded, attempted int) {
	type batch struct {
		number   int
		texts    []string
		payloads []types.Payload
	}

	var batches []batch
	for start := 0; start < len(texts); start += cfg.BatchSize {
		end := start + cfg.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, batch{
			number:   len(batches) + 1,
			texts:    texts[start:end],
			payloads: payloads[start:end],
		})
	}

	var ok int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, b := range batches {
		g.Go(func() error {
			vectors, err := o.batcher.EmbedTexts(gctx, b.texts)
			if err != nil {
				o.logger.Printf("WARN: batch %d/%d: embed: %v", b.number, len(batches), err)
				return nil
			}

			if !cfg.DryRun {
				if err := o.index.Upsert(gctx, cfg.Collection, vectors, b.payloads); err != nil {
					o.logger.Printf("WARN: batch %d/%d: upsert: %v", b.number, len(batches), err)
					return nil
				}
			}

			atomic.AddInt32(&ok, 1)
			return nil
		})
	}

	// Workers never return errors; Wait only propagates context cancellation.
	_ = g.Wait()

	return int(atomic.LoadInt32(&ok)), len(batches)
}

// LogStats writes a run summary through the orchestrator's logger
func (o *Orchestrator) LogStats(stats *Stats) {
	o.logger.Printf("ingestion %s: status=%s chunks=%d files=%d/%d batches=%d/%d dry_run=%v duration=%s",
		stats.RunID, stats.Status, stats.TotalChunks, stats.ProcessedFiles, stats.TotalFiles,
		stats.SuccessfulBatches, stats.TotalBatches, stats.DryRun, stats.Duration.Round(time.Millisecond))
	if stats.Message != "" {
		o.logger.Printf("ingestion %s: %s", stats.RunID, stats.Message)
	}
}
