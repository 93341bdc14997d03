package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tradekb/tradekb/internal/vectorindex"
	"github.com/tradekb/tradekb/pkg/types"
)

// DefaultTimeout bounds every HTTP call to the index
const DefaultTimeout = 15 * time.Second

// Config holds Qdrant connection settings
type Config struct {
	Host    string
	Port    int
	APIKey  string
	Timeout time.Duration
}

// Client is a REST client to a Qdrant instance implementing the
// vectorindex.Index contract. All collections use cosine distance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ vectorindex.Index = (*Client)(nil)

// Connect validates the target address and verifies the instance is
// reachable with a liveness probe before returning a usable client.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("%w: host is required", vectorindex.ErrConnectionFailed)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range [1,65535]", vectorindex.ErrConnectionFailed, cfg.Port)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	// Liveness check: listing collections exercises auth and transport.
	if err := c.doJSON(ctx, http.MethodGet, "/collections", nil, nil); err != nil {
		return nil, fmt.Errorf("%w: liveness check: %v", vectorindex.ErrConnectionFailed, err)
	}

	return c, nil
}

// RecreateCollection drops the collection if present and creates it fresh
// with the given dimensionality and cosine distance.
func (c *Client) RecreateCollection(ctx context.Context, name string, vectorSize int) error {
	if vectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive, got %d", vectorindex.ErrCollectionFailed, vectorSize)
	}

	// Deleting a missing collection is not an error for recreate.
	if err := c.doJSON(ctx, http.MethodDelete, "/collections/"+name, nil, nil); err != nil && !isNotFound(err) {
		return fmt.Errorf("%w: drop %s: %v", vectorindex.ErrCollectionFailed, name, err)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}
	if err := c.doJSON(ctx, http.MethodPut, "/collections/"+name, body, nil); err != nil {
		return fmt.Errorf("%w: create %s: %v", vectorindex.ErrCollectionFailed, name, err)
	}

	return nil
}

// Upsert writes paired points. The vector/payload length check happens
// before any network call; the write waits for index acknowledgment.
func (c *Client) Upsert(ctx context.Context, name string, vectors [][]float32, payloads []types.Payload) error {
	if len(vectors) != len(payloads) {
		return fmt.Errorf("%w: %d vectors but %d payloads", vectorindex.ErrUpsertFailed, len(vectors), len(payloads))
	}
	if len(vectors) == 0 {
		return nil
	}

	points := make([]map[string]any, len(vectors))
	for i := range vectors {
		if payloads[i].ID == 0 {
			return fmt.Errorf("%w: payload %d has no id", vectorindex.ErrUpsertFailed, i)
		}
		points[i] = map[string]any{
			"id":      payloads[i].ID,
			"vector":  vectors[i],
			"payload": payloads[i].ToMap(),
		}
	}

	body := map[string]any{"points": points}
	if err := c.doJSON(ctx, http.MethodPut, "/collections/"+name+"/points?wait=true", body, nil); err != nil {
		return fmt.Errorf("%w: %v", vectorindex.ErrUpsertFailed, err)
	}

	return nil
}

// Search returns at most topK hits ordered by descending cosine similarity
func (c *Client) Search(ctx context.Context, name string, vector []float32, topK int, filters vectorindex.Filters) ([]types.QueryResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", vectorindex.ErrInvalidArgument, topK)
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if len(filters) > 0 {
		must := make([]map[string]any, 0, len(filters))
		for field, value := range filters {
			must = append(must, map[string]any{
				"key":   field,
				"match": map[string]any{"value": value},
			})
		}
		body["filter"] = map[string]any{"must": must}
	}

	var resp struct {
		Result []struct {
			ID      uint64         `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/collections/"+name+"/points/search", body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", vectorindex.ErrSearchFailed, err)
	}

	results := make([]types.QueryResult, 0, len(resp.Result))
	for _, hit := range resp.Result {
		payload := types.PayloadFromMap(hit.Payload)
		if hit.ID != 0 {
			// The point ID is authoritative: the payload copy may have
			// lost precision through float64 JSON decoding.
			payload.ID = hit.ID
		}
		results = append(results, types.QueryResult{
			Score:   hit.Score,
			Payload: payload,
		})
	}

	return results, nil
}

// CollectionInfo reports a collection's status and point count
func (c *Client) CollectionInfo(ctx context.Context, name string) (*vectorindex.CollectionInfo, error) {
	var resp struct {
		Result struct {
			Status      string `json:"status"`
			PointsCount int64  `json:"points_count"`
			Config      struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/collections/"+name, nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: info %s: %v", vectorindex.ErrCollectionFailed, name, err)
	}

	return &vectorindex.CollectionInfo{
		Name:       name,
		VectorSize: resp.Result.Config.Params.Vectors.Size,
		PointCount: resp.Result.PointsCount,
		Status:     resp.Result.Status,
	}, nil
}

// DeleteCollection removes a collection; a missing collection is an error
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/collections/"+name, nil, nil); err != nil {
		return fmt.Errorf("%w: delete %s: %v", vectorindex.ErrCollectionFailed, name, err)
	}
	return nil
}

// Close releases idle HTTP connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// statusError carries the HTTP status of a failed index call
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(bodyBytes))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
