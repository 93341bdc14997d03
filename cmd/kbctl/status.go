package main

import (
	"github.com/spf13/cobra"
)

var statusCollection string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection point count and health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var dropCmd = &cobra.Command{
	Use:   "drop [collection]",
	Short: "Delete a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func init() {
	statusCmd.Flags().StringVar(&statusCollection, "collection", "", "collection name (defaults to configured collection)")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(dropCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	collection := cfg.Collection
	if statusCollection != "" {
		collection = statusCollection
	}

	ctx := cmd.Context()
	index, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	info, err := index.CollectionInfo(ctx, collection)
	if err != nil {
		return err
	}

	cmd.Printf("Collection:  %s\n", info.Name)
	cmd.Printf("Status:      %s\n", info.Status)
	cmd.Printf("Points:      %d\n", info.PointCount)
	cmd.Printf("Vector size: %d\n", info.VectorSize)
	return nil
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	index, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	if err := index.DeleteCollection(ctx, args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted collection %s\n", args[0])
	return nil
}
