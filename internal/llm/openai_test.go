package llm

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestBuildMessages_SystemPromptCarriesExcerpts(t *testing.T) {
	req := domain.GenerationRequest{
		Context:  []string{"first excerpt", "second excerpt"},
		Question: "what does the report say?",
	}
	messages := buildMessages(req)
	require.Len(t, messages, 2)

	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "[1] first excerpt")
	assert.Contains(t, messages[0].Content, "[2] second excerpt")

	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "what does the report say?", messages[1].Content)
}

func TestBuildMessages_HistoryAlternatesRoles(t *testing.T) {
	req := domain.GenerationRequest{
		History: []domain.Turn{
			{Question: "q1", Answer: "a1"},
			{Question: "q2", Answer: "a2"},
		},
		Context:  []string{"excerpt"},
		Question: "q3",
	}
	messages := buildMessages(req)
	require.Len(t, messages, 6)

	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "q1", messages[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[2].Role)
	assert.Equal(t, "a1", messages[2].Content)
	assert.Equal(t, "q2", messages[3].Content)
	assert.Equal(t, "a2", messages[4].Content)
	assert.Equal(t, "q3", messages[5].Content)
}

func TestBuildMessages_NoContext(t *testing.T) {
	messages := buildMessages(domain.GenerationRequest{Question: "q"})
	require.Len(t, messages, 2)
	assert.NotContains(t, messages[0].Content, "Document excerpts")
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "DOCCHAT_TEST_KEY"})
	assert.Error(t, err)
}

func TestNewClient_ReadsKeyFromEnv(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_KEY", "sk-test")
	c, err := NewClient(Config{APIKeyEnv: "DOCCHAT_TEST_KEY", Model: "custom-model"})
	require.NoError(t, err)
	assert.Equal(t, "custom-model", c.model)
}

func TestRewriteQuery_NoHistoryPassesThrough(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_KEY", "sk-test")
	c, err := NewClient(Config{APIKeyEnv: "DOCCHAT_TEST_KEY"})
	require.NoError(t, err)

	// no history means no API call, the question goes through untouched
	out, err := c.RewriteQuery(context.Background(), nil, "what is a cat?")
	require.NoError(t, err)
	assert.Equal(t, "what is a cat?", out)
}

func TestTransient_Classification(t *testing.T) {
	assert.True(t, transient(&openai.APIError{HTTPStatusCode: 429}))
	assert.True(t, transient(&openai.APIError{HTTPStatusCode: 503}))
	assert.False(t, transient(&openai.APIError{HTTPStatusCode: 401}))
	assert.False(t, transient(&openai.APIError{HTTPStatusCode: 400}))
	assert.True(t, transient(assert.AnError))
}
