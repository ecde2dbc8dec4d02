// Package qdrant backs the similarity index with a Qdrant server through
// its REST API. Each Build recreates the collection, matching the
// ingest-then-query lifecycle: no incremental updates.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"docchat/internal/domain"
	"docchat/internal/vectorstore"
)

// Config contains connection details for a Qdrant server.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Builder creates Qdrant-backed indexes.
type Builder struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// NewBuilder returns a builder for Qdrant-backed indexes.
func NewBuilder(cfg Config) *Builder {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Builder{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Build drops any existing collection, recreates it with the vector
// dimension and cosine distance, and upserts all chunks.
func (b *Builder) Build(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) (vectorstore.Index, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch")
	}
	dimension := len(vectors[0])

	// Best-effort drop; a missing collection is not an error.
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/collections/%s", b.url, b.collection), nil)
	if err != nil {
		return nil, err
	}
	b.auth(req)
	if resp, err := b.client.Do(req); err == nil {
		resp.Body.Close()
	}

	create := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := b.putJSON(ctx, fmt.Sprintf("%s/collections/%s", b.url, b.collection), create); err != nil {
		return nil, err
	}

	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		points[i] = map[string]any{
			"id":     i,
			"vector": vectors[i],
			"payload": map[string]any{
				"document_id": chunks[i].DocumentID,
				"chunk_id":    chunks[i].ChunkID,
				"index":       chunks[i].Index,
				"text":        chunks[i].Text,
			},
		}
	}
	body := map[string]any{"points": points}
	if err := b.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", b.url, b.collection), body); err != nil {
		return nil, err
	}
	return &Index{builder: b, count: len(chunks)}, nil
}

// Index queries a collection previously populated by Build.
type Index struct {
	builder *Builder
	count   int
}

// Len reports the number of indexed chunks.
func (idx *Index) Len() int { return idx.count }

// Search runs a similarity query and round-trips chunk payloads back into
// search results.
func (idx *Index) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive")
	}
	b := idx.builder
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := b.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", b.url, b.collection), req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.Chunk{}
		if v, ok := r.Payload["document_id"].(string); ok {
			chunk.DocumentID = v
		}
		if v, ok := r.Payload["chunk_id"].(string); ok {
			chunk.ChunkID = v
		}
		if v, ok := r.Payload["index"].(float64); ok {
			chunk.Index = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.Text = v
		}
		results = append(results, domain.SearchResult{Chunk: chunk, Score: r.Score})
	}
	return results, nil
}

func (b *Builder) auth(req *http.Request) {
	if b.apiKey != "" {
		req.Header.Set("api-key", b.apiKey)
	}
}

func (b *Builder) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	b.auth(req)
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (b *Builder) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	b.auth(req)
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
