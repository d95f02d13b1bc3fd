package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JexSrs/go-ollama"
)

// OllamaRepo generates text with a local Ollama server. go-ollama has no
// context support, so ctx is only checked before the call.
type OllamaRepo struct {
	client *ollama.Ollama
	model  string
}

func NewOllamaRepo(host string, model string) (*OllamaRepo, error) {
	ollamaURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	slog.Info(fmt.Sprintf("Using Ollama host %s with model %s", host, model))

	return &OllamaRepo{client: ollama.New(*ollamaURL), model: model}, nil
}

func (r *OllamaRepo) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := r.client.Generate(
		r.client.Generate.WithModel(r.model),
		r.client.Generate.WithPrompt(prompt),
	)

	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	if !res.Done {
		return "", fmt.Errorf("ollama generate: response not done")
	}

	if res.Response == "" {
		return "", errNoText
	}

	return strings.TrimSpace(res.Response), nil
}
