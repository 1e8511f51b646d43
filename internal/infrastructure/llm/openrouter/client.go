package openrouter

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Client talks to OpenRouter through its OpenAI-compatible chat completion
// surface. The model is chosen per call: the one-shot structurer and the
// interview run different models over the same transport.
type Client struct {
	api   openai.Client
	guard *Guard
}

func New(apiKey, baseURL string, guard *Guard) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			// Single-attempt semantics; the SDK default of two retries would
			// stack on top of the caller's fallback behavior.
			option.WithMaxRetries(0),
		),
		guard: guard,
	}
}

// Chat performs exactly one completion attempt. Upstream failures come back
// to the caller as-is: generation is interactive and the caller owns the
// fallback, so retrying here only adds latency.
func (c *Client) Chat(ctx context.Context, messages []domain.ChatMessage, opts ports.GenerationOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(opts.Model),
		Messages: toParams(messages),
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	return c.guard.Do(ctx, func(ctx context.Context) (string, error) {
		completion, err := c.api.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openrouter chat completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("openrouter chat completion: no choices returned")
		}
		return completion.Choices[0].Message.Content, nil
	})
}

func toParams(messages []domain.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}
