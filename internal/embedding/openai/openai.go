// Package openai embeds text through an OpenAI-compatible embeddings API.
// The base URL can point at any compatible server (Ollama, LM Studio).
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docchat/internal/domain"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// Config configures the embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// Client implements domain.Embedder against a remote embeddings API.
type Client struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewClient reads the API key from the configured environment variable and
// builds the client.
func NewClient(cfg Config) (*Client, error) {
	env := cfg.APIKeyEnv
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	key := os.Getenv(env)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", env)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	cc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	cc.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		client: openai.NewClientWithConfig(cc),
		model:  openai.EmbeddingModel(model),
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Prepare is a no-op for remote embedding; the dimension is learned from
// the first response.
func (c *Client) Prepare(corpus []string) (domain.Embedder, error) { return c, nil }

// Dimension returns the dimensionality of the produced vectors. Zero until
// the first successful embed.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per input text, in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: c.model,
	})
	if err != nil {
		return nil, &domain.EmbeddingError{Transient: transient(err), Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &domain.EmbeddingError{
			Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}
	vectors := make([][]float64, len(texts))
	for _, data := range resp.Data {
		// Index comes from the server; non-conforming OpenAI-compatible
		// servers must not be able to panic us.
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, &domain.EmbeddingError{
				Err: fmt.Errorf("embedding index %d out of range for %d inputs", data.Index, len(texts)),
			}
		}
		vec := make([]float64, len(data.Embedding))
		for i, v := range data.Embedding {
			vec[i] = float64(v)
		}
		vectors[data.Index] = vec
	}
	if c.dimension == 0 && len(vectors[0]) > 0 {
		c.dimension = len(vectors[0])
	}
	return vectors, nil
}

func transient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	// Non-API failures are connectivity problems until proven otherwise.
	return true
}
