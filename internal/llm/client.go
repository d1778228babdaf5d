// Package llm wraps the OpenAI API for embeddings and persona chat replies.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	requestTimeout = 60 * time.Second

	defaultChatModel   = "gpt-4.1"
	defaultTemperature = 0.7
)

// Client calls OpenAI for embeddings and chat completions.
type Client struct {
	api       *openai.Client
	chatModel string
}

// NewClient creates an OpenAI client with a bounded HTTP timeout.
// An empty chatModel falls back to the default.
func NewClient(apiKey, chatModel string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{
		Timeout: requestTimeout,
	}

	if chatModel == "" {
		chatModel = defaultChatModel
	}

	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		chatModel: chatModel,
	}
}

// Embed returns one embedding vector per input text, in input order.
// Inputs are sent as a single batched request.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.AdaEmbeddingV2,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

// Reply asks the chat model to answer as the persona described by the system
// prompt.
func (c *Client) Reply(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: defaultTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
