package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tradekb/tradekb/internal/config"
	"github.com/tradekb/tradekb/internal/mcp"
	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/internal/vectorindex/qdrant"
	"github.com/tradekb/tradekb/internal/vectorindex/sqlite"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// EnvLocalIndex selects the embedded SQLite index instead of Qdrant
const EnvLocalIndex = "TRADEKB_LOCAL_INDEX"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("TradeKB MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		os.Exit(0)
	}

	// Log to stderr; stdout is reserved for the MCP protocol
	log.SetOutput(os.Stderr)
	log.Printf("TradeKB MCP Server v%s starting...", version)

	cfg := config.FromEnv()

	index, err := openIndex(cfg)
	if err != nil {
		log.Fatalf("Failed to open vector index: %v", err)
	}

	server, err := mcp.NewServer(cfg, index, log.Default())
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server stopped")
}

func openIndex(cfg *config.Config) (vectorindex.Index, error) {
	if dbPath := os.Getenv(EnvLocalIndex); dbPath != "" {
		log.Printf("Using local index at %s", dbPath)
		return sqlite.Open(dbPath)
	}
	return qdrant.Connect(context.Background(), qdrant.Config{
		Host:    cfg.Qdrant.Host,
		Port:    cfg.Qdrant.Port,
		APIKey:  cfg.Qdrant.APIKey,
		Timeout: time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
	})
}
