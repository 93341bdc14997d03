package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tradekb/tradekb/internal/ingest"
	"github.com/tradekb/tradekb/internal/retriever"
	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeSourceNotFound  = -32001 // Document source tree does not exist
	ErrorCodeEmptyQuestion   = -32002 // Question parameter is empty
	ErrorCodeCollectionError = -32003 // Collection missing or unreadable
)

// handleIngestDocuments handles the ingest_documents tool invocation
func (s *Server) handleIngestDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	root := getStringDefault(args, "root", s.cfg.KBRoot)
	if err := validateSourceTree(root); err != nil {
		return nil, newMCPError(ErrorCodeSourceNotFound, "invalid source tree", map[string]interface{}{
			"param":  "root",
			"reason": err.Error(),
		})
	}

	cfg := ingest.Config{
		Collection: getStringDefault(args, "collection", s.cfg.Collection),
		BatchSize:  getIntDefault(args, "batch_size", s.cfg.BatchSize),
		DryRun:     getBoolDefault(args, "dry_run", false),
	}

	stats, err := s.orch.Run(ctx, root, cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "ingestion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.orch.LogStats(stats)

	response := map[string]interface{}{
		"run_id":             stats.RunID,
		"status":             stats.Status,
		"collection":         cfg.Collection,
		"total_chunks":       stats.TotalChunks,
		"total_files":        stats.TotalFiles,
		"processed_files":    stats.ProcessedFiles,
		"total_batches":      stats.TotalBatches,
		"successful_batches": stats.SuccessfulBatches,
		"dry_run":            stats.DryRun,
		"duration_ms":        stats.Duration.Milliseconds(),
	}
	if stats.Message != "" {
		response["message"] = stats.Message
	}
	if failures := failedOutcomes(stats); len(failures) > 0 {
		response["failed_documents"] = failures
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleQueryKnowledge handles the query_knowledge tool invocation
func (s *Server) handleQueryKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	question, _ := args["question"].(string)
	if strings.TrimSpace(question) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuestion, "question parameter is required and cannot be empty", map[string]interface{}{
			"param":  "question",
			"reason": "missing or empty",
		})
	}

	topK := getIntDefault(args, "top_k", s.cfg.TopK)
	if topK <= 0 {
		topK = retriever.DefaultTopK
	}
	collection := getStringDefault(args, "collection", s.cfg.Collection)
	filters := toFilters(args["filters"])

	results, stats, err := s.retriever.QueryWithStats(ctx, collection, question, topK, filters)
	if err != nil {
		if errors.Is(err, retriever.ErrInvalidQuery) {
			return nil, newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
		}
		return nil, newMCPError(ErrorCodeInternalError, "query failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		items = append(items, map[string]interface{}{
			"score":       res.Score,
			"class_id":    res.Payload.ClassID,
			"source":      res.Payload.Source,
			"file_name":   res.Payload.FileName,
			"chunk_index": res.Payload.ChunkIndex,
			"text":        res.Payload.Text,
		})
	}

	response := map[string]interface{}{
		"question":   question,
		"collection": collection,
		"results":    items,
		"statistics": map[string]interface{}{
			"result_count":  stats.ResultCount,
			"duration_ms":   stats.Duration.Milliseconds(),
			"min_score":     stats.MinScore,
			"max_score":     stats.MaxScore,
			"avg_score":     stats.AvgScore,
			"source_counts": stats.SourceCounts,
			"class_counts":  stats.ClassCounts,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCollectionStatus handles the collection_status tool invocation
func (s *Server) handleCollectionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}
	collection := getStringDefault(args, "collection", s.cfg.Collection)

	info, err := s.index.CollectionInfo(ctx, collection)
	if err != nil {
		return nil, newMCPError(ErrorCodeCollectionError, "failed to get collection info", map[string]interface{}{
			"collection": collection,
			"error":      err.Error(),
		})
	}

	response := map[string]interface{}{
		"collection":  info.Name,
		"vector_size": info.VectorSize,
		"point_count": info.PointCount,
		"status":      info.Status,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateSourceTree checks that root exists and is a readable directory
func validateSourceTree(root string) error {
	if root == "" {
		return ErrRootRequired
	}
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return ErrRootNotFound
	}
	if err != nil {
		return ErrRootNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	return nil
}

// toFilters converts the raw JSON filters argument into index filters
func toFilters(raw interface{}) vectorindex.Filters {
	m, ok := raw.(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil
	}
	filters := make(vectorindex.Filters, len(m))
	for k, v := range m {
		filters[k] = v
	}
	return filters
}

func failedOutcomes(stats *ingest.Stats) []map[string]interface{} {
	var failures []map[string]interface{}
	for _, outcome := range stats.Outcomes {
		if outcome.Status != types.OutcomeFailed {
			continue
		}
		failures = append(failures, map[string]interface{}{
			"path":   outcome.Path,
			"reason": outcome.Reason,
		})
	}
	return failures
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrRootRequired    = errors.New("source tree path is required")
	ErrRootNotFound    = errors.New("source tree does not exist")
	ErrRootNotReadable = errors.New("source tree is not readable")
	ErrNotDirectory    = errors.New("source tree path is not a directory")
)
