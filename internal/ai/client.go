// Package ai talks to OpenAI compatible chat completion endpoints.
package ai

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
)

const DefaultModel = "gpt-4o-mini"

var ErrEmptyReply = errors.NewSentinel("chat completion returned no content")

// Options tune a single completion. A nil Temperature leaves it to the provider.
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Chatter sends one prompt and returns the text of the reply.
type Chatter interface {
	Chat(ctx context.Context, prompt string, opts Options) (string, error)
}

// Config configures [Client].
type Config struct {
	APIKey string
	// BaseURL points the client at a compatible server. Empty means api.openai.com.
	BaseURL string
}

// Client is a [Chatter] backed by the OpenAI API.
type Client struct {
	client openai.Client
	logger *slog.Logger
}

// NewClient creates an OpenAI client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

// Chat sends prompt as a single user message. Errors are returned as [*Error] so that callers can tell
// timeouts from other failures.
func (c *Client) Chat(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "sending chat completion request",
		slog.String("model", model), slog.Int("prompt_length", len(prompt)))

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", Classify(err)
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "received chat completion response",
		slog.Int64("completion_tokens", completion.Usage.CompletionTokens),
		slog.Int64("prompt_tokens", completion.Usage.PromptTokens),
		slog.Int64("total_tokens", completion.Usage.TotalTokens))

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return completion.Choices[0].Message.Content, nil
}
