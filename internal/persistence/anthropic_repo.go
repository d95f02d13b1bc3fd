package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultAnthropicModel = "claude-3-haiku-20240307"

var errNoText = errors.New("model response has no text content")

// AnthropicRepo generates text with the Anthropic Messages API. The SDK's
// built-in retries are disabled: one attempt per prompt.
type AnthropicRepo struct {
	client anthropic.Client
	model  string
}

func NewAnthropicRepo(apiKey string, model string, opts ...option.RequestOption) AnthropicRepo {
	if model == "" {
		model = DefaultAnthropicModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)

	return AnthropicRepo{client: anthropic.NewClient(opts...), model: model}
}

func (r AnthropicRepo) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	msg, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", errNoText
}
