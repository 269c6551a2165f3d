// Package qdrant provides a VectorStore adapter over the Qdrant REST
// API. The collection uses cosine distance; indexing internals are the
// server's concern.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultCollection = "documents"
	DefaultTimeout    = 30 * time.Second
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL is the Qdrant endpoint, e.g. http://localhost:6333 (required).
	URL string

	// APIKey authenticates requests. Optional for local instances.
	APIKey string

	// Collection is the collection name (default: documents).
	Collection string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store talks to one Qdrant collection.
type Store struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string

	mu        sync.RWMutex
	dimension int
}

// apiError is Qdrant's error envelope.
type apiError struct {
	Status struct {
		Error string `json:"error"`
	} `json:"status"`
}

// pointPayload is the stored payload shape. Field names are shared
// with domain payload keys; changing one without the other breaks
// query filters.
type pointPayload struct {
	Content    string `json:"content"`
	ChunkIndex int    `json:"chunk_index"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	TotalPages int    `json:"total_pages"`
	SourceFile string `json:"source_file"`
}

// NewStore creates a new Qdrant store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant: URL is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}, nil
}

// EnsureCollection fetches the collection and creates it when absent.
// A redundant create from a concurrent caller is tolerated: points are
// independent, so last-writer-wins on the create is harmless.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, dimension)
	}

	status, _, err := s.do(ctx, http.MethodGet, s.collectionURL(""), nil)
	if err != nil {
		return fmt.Errorf("fetching collection %s: %w", s.collection, err)
	}

	switch {
	case status == http.StatusNotFound:
		body := map[string]any{
			"vectors": map[string]any{
				"size":     dimension,
				"distance": "Cosine",
			},
		}
		createStatus, raw, err := s.do(ctx, http.MethodPut, s.collectionURL(""), body)
		if err != nil {
			return fmt.Errorf("creating collection %s: %w", s.collection, err)
		}
		// 409 means another caller won the creation race
		if createStatus >= 300 && createStatus != http.StatusConflict {
			return fmt.Errorf("creating collection %s: %s", s.collection, errorDetail(createStatus, raw))
		}
	case status >= 300:
		return fmt.Errorf("fetching collection %s: status %d", s.collection, status)
	}

	s.mu.Lock()
	s.dimension = dimension
	s.mu.Unlock()
	return nil
}

// Upsert writes all points with wait=true, so the write is durable and
// visible to queries before this returns.
func (s *Store) Upsert(ctx context.Context, points []domain.EmbeddedPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := s.checkDimensions(points); err != nil {
		return err
	}

	apiPoints := make([]map[string]any, len(points))
	for i := range points {
		apiPoints[i] = map[string]any{
			"id":      points[i].ID,
			"vector":  points[i].Vector,
			"payload": toPayload(points[i].Payload),
		}
	}
	body := map[string]any{"points": apiPoints}

	status, raw, err := s.do(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body)
	if err != nil {
		return fmt.Errorf("%w: upserting %d points: %v", domain.ErrIndexWrite, len(points), err)
	}
	if status >= 300 {
		return fmt.Errorf("%w: upserting %d points: %s",
			domain.ErrIndexWrite, len(points), errorDetail(status, raw))
	}
	return nil
}

// Query returns at most limit results ranked by descending cosine
// similarity, optionally restricted by a conjunctive equality filter.
func (s *Store) Query(
	ctx context.Context, vector []float32, limit int, filter domain.Filter,
) ([]domain.QueryResult, error) {
	s.mu.RLock()
	dimension := s.dimension
	s.mu.RUnlock()
	if dimension > 0 && len(vector) != dimension {
		return nil, fmt.Errorf("%w: query vector has dimension %d, collection expects %d",
			domain.ErrInvalidInput, len(vector), dimension)
	}
	if limit <= 0 {
		return []domain.QueryResult{}, nil
	}

	body := map[string]any{
		"query":        vector,
		"limit":        limit,
		"with_payload": true,
	}
	if len(filter) > 0 {
		must := make([]map[string]any, 0, len(filter))
		for key, value := range filter {
			must = append(must, map[string]any{
				"key":   key,
				"match": map[string]any{"value": value},
			})
		}
		body["filter"] = map[string]any{"must": must}
	}

	status, raw, err := s.do(ctx, http.MethodPost, s.collectionURL("/points/query"), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexQuery, err)
	}
	if status >= 300 {
		return nil, fmt.Errorf("%w: %s", domain.ErrIndexQuery, errorDetail(status, raw))
	}

	var resp struct {
		Result struct {
			Points []struct {
				Score   float64      `json:"score"`
				Payload pointPayload `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrIndexQuery, err)
	}

	results := make([]domain.QueryResult, len(resp.Result.Points))
	for i, p := range resp.Result.Points {
		results[i] = domain.QueryResult{
			Score:   p.Score,
			Payload: fromPayload(p.Payload),
		}
	}
	return results, nil
}

// DeleteByIDs removes points synchronously. Qdrant treats unknown ids
// as no-ops, matching the port contract.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	body := map[string]any{"points": ids}

	status, raw, err := s.do(ctx, http.MethodPost, s.collectionURL("/points/delete?wait=true"), body)
	if err != nil {
		return fmt.Errorf("%w: deleting %d points: %v", domain.ErrIndexWrite, len(ids), err)
	}
	if status >= 300 {
		return fmt.Errorf("%w: deleting %d points: %s",
			domain.ErrIndexWrite, len(ids), errorDetail(status, raw))
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// checkDimensions rejects mismatched vectors before any bytes go out.
func (s *Store) checkDimensions(points []domain.EmbeddedPoint) error {
	s.mu.RLock()
	dimension := s.dimension
	s.mu.RUnlock()
	if dimension == 0 {
		return nil
	}
	for i := range points {
		if len(points[i].Vector) != dimension {
			return fmt.Errorf("%w: point %s has dimension %d, collection expects %d",
				domain.ErrInvalidInput, points[i].ID, len(points[i].Vector), dimension)
		}
	}
	return nil
}

// do sends one JSON request and returns the status and raw body.
func (s *Store) do(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func (s *Store) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.baseURL, s.collection, suffix)
}

// errorDetail extracts Qdrant's error message when present.
func errorDetail(status int, raw []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Status.Error != "" {
		return fmt.Sprintf("status %d: %s", status, apiErr.Status.Error)
	}
	return fmt.Sprintf("status %d: %s", status, string(raw))
}

func toPayload(p domain.Payload) pointPayload {
	return pointPayload{
		Content:    p.Content,
		ChunkIndex: p.ChunkIndex,
		Title:      p.Metadata.Title,
		Author:     p.Metadata.Author,
		TotalPages: p.Metadata.TotalPages,
		SourceFile: p.Metadata.SourceFile,
	}
}

func fromPayload(p pointPayload) domain.Payload {
	return domain.Payload{
		Content:    p.Content,
		ChunkIndex: p.ChunkIndex,
		Metadata: domain.DocumentMetadata{
			Title:      p.Title,
			Author:     p.Author,
			TotalPages: p.TotalPages,
			SourceFile: p.SourceFile,
		},
	}
}
