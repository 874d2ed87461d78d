package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured
const DefaultModel = openai.GPT3Dot5Turbo

// ChatCompleter creates chat completions
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient creates the OpenAI client, url overrides the default API root
func NewOpenAIClient(key, url string) (*openai.Client, error) {
	if key == "" {
		return nil, fmt.Errorf("no openai key")
	}
	cfg := openai.DefaultConfig(key)
	if url != "" {
		if !strings.HasPrefix(url, "http") {
			return nil, fmt.Errorf("no http in url '%s'", url)
		}
		cfg.BaseURL = strings.TrimSuffix(url, "/")
	}
	goapp.Log.Info().Str("url", cfg.BaseURL).Msg("openai client")
	return openai.NewClientWithConfig(cfg), nil
}

type chat struct {
	client  ChatCompleter
	model   string
	timeout time.Duration
}

func newChat(client ChatCompleter, model string, timeout time.Duration) (chat, error) {
	if client == nil {
		return chat{}, fmt.Errorf("no chat client")
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return chat{client: client, model: model, timeout: timeout}, nil
}

func (c *chat) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	ctx, cancelF := context.WithTimeout(ctx, c.timeout)
	defer cancelF()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.1,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("can't complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	goapp.Log.Debug().Int("prompt", resp.Usage.PromptTokens).Int("completion", resp.Usage.CompletionTokens).Msg("usage")
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
