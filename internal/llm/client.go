package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"chatty/internal/domain"
)

// DefaultBaseURL points at OpenRouter's OpenAI-compatible API.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Stream is a forward-only sequence of completion text deltas. Recv
// returns io.EOF when the model is done; any other error ends the stream
// and the caller keeps whatever deltas arrived before it.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Config configures the chat completion client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
}

// Client performs chat completions against an OpenAI-compatible service.
type Client struct {
	api *openai.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENROUTER_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cc := openai.DefaultConfig(key)
	cc.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{api: openai.NewClientWithConfig(cc)}, nil
}

// Complete runs a non-streaming completion and returns the full response
// text.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage, model string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toAPIMessages(messages),
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream starts a streaming completion. The returned stream must be
// closed by the caller.
func (c *Client) Stream(ctx context.Context, messages []domain.ChatMessage, model string, temperature float32) (Stream, error) {
	s, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toAPIMessages(messages),
		Temperature: temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion stream: %w", err)
	}
	return &chatStream{inner: s}, nil
}

type chatStream struct {
	inner *openai.ChatCompletionStream
}

// Recv returns the next non-empty text delta.
func (s *chatStream) Recv() (string, error) {
	for {
		chunk, err := s.inner.Recv()
		if err != nil {
			return "", err
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *chatStream) Close() error {
	return s.inner.Close()
}

func toAPIMessages(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
