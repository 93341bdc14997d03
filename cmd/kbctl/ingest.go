package main

import (
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradekb/tradekb/internal/chunker"
	"github.com/tradekb/tradekb/internal/embedder"
	"github.com/tradekb/tradekb/internal/ingest"
	"github.com/tradekb/tradekb/internal/vectorindex"
)

var (
	ingestCollection string
	ingestBatchSize  int
	ingestWorkers    int
	ingestDryRun     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source-tree]",
	Short: "Rebuild the collection from a document source tree",
	Long: `Walks the source tree, extracts text from transcripts and their
attachments, chunks it into overlapping windows, embeds the chunks and
upserts them. The target collection is recreated first, so ingestion
replaces the previous contents entirely.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "", "target collection (defaults to configured collection)")
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0, "chunks per embed/upsert batch (defaults to configured batch size)")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent batch workers (defaults to CPU count)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "extract, chunk and embed but write nothing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := cfg.KBRoot
	if len(args) == 1 {
		root = args[0]
	}
	collection := cfg.Collection
	if ingestCollection != "" {
		collection = ingestCollection
	}
	batchSize := cfg.BatchSize
	if ingestBatchSize > 0 {
		batchSize = ingestBatchSize
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return err
	}
	defer func() { _ = emb.Close() }()

	ch, err := chunker.New(chunker.Options{
		MaxWords:     cfg.MaxChunkWords,
		OverlapWords: cfg.ChunkOverlapWords,
		MinWords:     chunker.DefaultMinWords,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var index vectorindex.Index
	if !ingestDryRun {
		index, err = openIndex(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = index.Close() }()
	}

	orch := ingest.New(embedder.NewBatcher(emb, batchSize), index, ch, log.New(os.Stderr, "", log.LstdFlags))

	stats, err := orch.Run(ctx, root, ingest.Config{
		Collection: collection,
		BatchSize:  batchSize,
		Workers:    ingestWorkers,
		DryRun:     ingestDryRun,
	})
	if err != nil {
		return err
	}
	orch.LogStats(stats)

	cmd.Printf("Ingestion %s: %s\n", stats.RunID, stats.Status)
	cmd.Printf("  Files:   %d/%d processed\n", stats.ProcessedFiles, stats.TotalFiles)
	cmd.Printf("  Chunks:  %d\n", stats.TotalChunks)
	cmd.Printf("  Batches: %d/%d succeeded\n", stats.SuccessfulBatches, stats.TotalBatches)
	cmd.Printf("  Took:    %s\n", stats.Duration.Round(time.Millisecond))
	if stats.Message != "" {
		cmd.Printf("  Note:    %s\n", stats.Message)
	}
	return nil
}
