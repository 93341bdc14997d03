package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ingestDocumentsTool returns the tool definition for ingest_documents
func ingestDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ingest_documents",
		Description: "Rebuild the knowledge-base collection from a document source tree",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"root": map[string]interface{}{
					"type":        "string",
					"description": "Path to the document source tree (defaults to the configured kb_root)",
				},
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Target collection name (defaults to the configured collection)",
				},
				"batch_size": map[string]interface{}{
					"type":        "integer",
					"description": "Chunks per embed/upsert batch",
					"minimum":     1,
				},
				"dry_run": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, extract, chunk and embed but write nothing to the index",
					"default":     false,
				},
			},
		},
	}
}

// queryKnowledgeTool returns the tool definition for query_knowledge
func queryKnowledgeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_knowledge",
		Description: "Semantic search over the knowledge base, returning ranked chunks with scores and source metadata",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question or search text",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return",
					"minimum":     1,
				},
				"filters": map[string]interface{}{
					"type":        "object",
					"description": "Exact-match payload filters combined with AND (e.g. {\"class_id\": \"Video_01\", \"source\": \"pdf\"})",
				},
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection to search (defaults to the configured collection)",
				},
			},
			Required: []string{"question"},
		},
	}
}

// collectionStatusTool returns the tool definition for collection_status
func collectionStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "collection_status",
		Description: "Report point count, vector size and status for a collection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection name (defaults to the configured collection)",
				},
			},
		},
	}
}
