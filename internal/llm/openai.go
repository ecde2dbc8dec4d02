// Package llm adapts a chat-completion API to the Generator capability.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docchat/internal/domain"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = "You are a helpful assistant. Answer the question using the provided document excerpts. " +
	"If the excerpts do not contain the answer, say so instead of guessing."

const condensePrompt = "Given the conversation so far and a follow-up question, rephrase the follow-up " +
	"into a single standalone question. Return only the question."

// Config configures the chat client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements domain.Generator over an OpenAI-compatible chat API.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
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
		timeout = 60 * time.Second
	}
	cc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	cc.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		client:      openai.NewClientWithConfig(cc),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Generate produces a grounded answer. Failures are surfaced as
// GenerationError without any retry; callers own their retry policy.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	return c.complete(ctx, buildMessages(req))
}

// RewriteQuery condenses the follow-up question and the conversation so
// far into a standalone retrieval query. With no history the question is
// returned unchanged.
func (c *Client) RewriteQuery(ctx context.Context, history []domain.Turn, question string) (string, error) {
	if len(history) == 0 {
		return question, nil
	}
	var b strings.Builder
	b.WriteString("Conversation:\n")
	for _, turn := range history {
		b.WriteString("User: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Answer)
		b.WriteString("\n")
	}
	b.WriteString("\nFollow-up question: ")
	b.WriteString(question)
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: condensePrompt},
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	}
	rewritten, err := c.complete(ctx, messages)
	if err != nil {
		return "", err
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", &domain.GenerationError{Transient: transient(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.GenerationError{Err: errors.New("no completion choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

// buildMessages turns a generation request into a chat transcript: system
// prompt carrying the retrieved context, prior turns as alternating
// user/assistant messages, the question last.
func buildMessages(req domain.GenerationRequest) []openai.ChatCompletionMessage {
	var system strings.Builder
	system.WriteString(systemPrompt)
	if len(req.Context) > 0 {
		system.WriteString("\n\nDocument excerpts:\n")
		for i, chunk := range req.Context {
			system.WriteString(fmt.Sprintf("\n[%d] %s\n", i+1, chunk))
		}
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2*len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system.String(),
	})
	for _, turn := range req.History {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.Question},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.Answer},
		)
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Question,
	})
}

func transient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	return true
}
