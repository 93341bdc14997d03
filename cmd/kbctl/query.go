package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradekb/tradekb/internal/embedder"
	"github.com/tradekb/tradekb/internal/retriever"
	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/pkg/types"
)

var (
	queryTopK       int
	queryClassID    string
	querySource     string
	queryCollection string
	queryJSON       bool
	queryStats      bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Semantic search over the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", 0, "maximum number of results (defaults to configured top_k)")
	queryCmd.Flags().StringVar(&queryClassID, "class-id", "", "restrict results to one class")
	queryCmd.Flags().StringVar(&querySource, "source", "", "restrict results to one source type (transcript, pdf, pptx, docx, trade_template)")
	queryCmd.Flags().StringVar(&queryCollection, "collection", "", "collection to search (defaults to configured collection)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().BoolVar(&queryStats, "stats", false, "print score and distribution statistics")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	topK := cfg.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}
	if topK <= 0 {
		topK = retriever.DefaultTopK
	}
	collection := cfg.Collection
	if queryCollection != "" {
		collection = queryCollection
	}

	var filters vectorindex.Filters
	if queryClassID != "" || querySource != "" {
		filters = vectorindex.Filters{}
		if queryClassID != "" {
			filters["class_id"] = queryClassID
		}
		if querySource != "" {
			filters["source"] = querySource
		}
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return err
	}
	defer func() { _ = emb.Close() }()

	ctx := cmd.Context()
	index, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	r := retriever.New(embedder.NewBatcher(emb, cfg.BatchSize), index)
	results, stats, err := r.QueryWithStats(ctx, collection, args[0], topK, filters)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, results)
	}
	outputQueryText(cmd, results)
	if queryStats {
		outputQueryStats(cmd, stats)
	}
	return nil
}

func outputQueryJSON(cmd *cobra.Command, results []types.QueryResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, results []types.QueryResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, res := range results {
		cmd.Printf("  [%d] %s / %s #%d (%.3f)\n",
			i+1, res.Payload.ClassID, res.Payload.FileName, res.Payload.ChunkIndex, res.Score)
		cmd.Printf("      %s\n", snippet(res.Payload.Text, 200))
		cmd.Println()
	}
}

func outputQueryStats(cmd *cobra.Command, stats *retriever.Stats) {
	cmd.Printf("Statistics:\n")
	cmd.Printf("  Results:  %d\n", stats.ResultCount)
	cmd.Printf("  Duration: %s\n", stats.Duration)
	cmd.Printf("  Scores:   min=%.3f avg=%.3f max=%.3f\n", stats.MinScore, stats.AvgScore, stats.MaxScore)
	for source, count := range stats.SourceCounts {
		cmd.Printf("  Source %s: %d\n", source, count)
	}
}

func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
