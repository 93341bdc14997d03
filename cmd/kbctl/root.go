package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradekb/tradekb/internal/config"
	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/internal/vectorindex/qdrant"
	"github.com/tradekb/tradekb/internal/vectorindex/sqlite"
)

var (
	configPath string
	localDB    string
)

var rootCmd = &cobra.Command{
	Use:   "kbctl",
	Short: "Manage the trading knowledge base",
	Long: `kbctl ingests trading course documents into a vector collection and
queries them with semantic search. Configuration comes from a YAML file
with environment-variable overrides.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&localDB, "local-db", "", "use an embedded SQLite index at this path instead of Qdrant")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, warning := range cfg.Validate() {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Warning:", warning)
	}
	return cfg, nil
}

func openIndex(ctx context.Context, cfg *config.Config) (vectorindex.Index, error) {
	if localDB != "" {
		return sqlite.Open(localDB)
	}
	return qdrant.Connect(ctx, qdrant.Config{
		Host:    cfg.Qdrant.Host,
		Port:    cfg.Qdrant.Port,
		APIKey:  cfg.Qdrant.APIKey,
		Timeout: time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
	})
}
