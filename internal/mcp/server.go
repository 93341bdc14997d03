package mcp

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tradekb/tradekb/internal/chunker"
	"github.com/tradekb/tradekb/internal/config"
	"github.com/tradekb/tradekb/internal/embedder"
	"github.com/tradekb/tradekb/internal/ingest"
	"github.com/tradekb/tradekb/internal/retriever"
	"github.com/tradekb/tradekb/internal/vectorindex"
)

const (
	// ServerName is the MCP server name
	ServerName = "tradekb"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the ingestion and retrieval pipeline
type Server struct {
	mcp       *server.MCPServer
	cfg       *config.Config
	index     vectorindex.Index
	orch      *ingest.Orchestrator
	retriever *retriever.Retriever
}

// NewServer assembles the pipeline over the given index. The embedding
// provider comes from the environment; the same batcher backs both the
// write path and the read path, so cached embeddings are shared.
func NewServer(cfg *config.Config, index vectorindex.Index, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	for _, warning := range cfg.Validate() {
		logger.Printf("WARN: config: %s", warning)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, err
	}
	batcher := embedder.NewBatcher(emb, cfg.BatchSize)

	ch, err := chunker.New(chunker.Options{
		MaxWords:     cfg.MaxChunkWords,
		OverlapWords: cfg.ChunkOverlapWords,
		MinWords:     chunker.DefaultMinWords,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		cfg:       cfg,
		index:     index,
		orch:      ingest.New(batcher, index, ch, logger),
		retriever: retriever.New(batcher, index),
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.index.Close() }()
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(ingestDocumentsTool(), s.handleIngestDocuments)
	s.mcp.AddTool(queryKnowledgeTool(), s.handleQueryKnowledge)
	s.mcp.AddTool(collectionStatusTool(), s.handleCollectionStatus)
}
