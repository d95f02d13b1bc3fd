package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"
)

const (
	FallbackTagline     = "Innovative idea with potential!"
	FallbackImprovement = "Consider adding a unique twist or target a specific niche market."
	FallbackAnswer      = "I'm sorry, I couldn't generate a response at the moment. Please try again later."
)

const (
	analysisMaxTokens = 1000
	answerMaxTokens   = 500
)

// Generator turns a single user prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result tags a value with where it came from. Err holds the masked failure when
// Source is SourceFallback.
type Result[T any] struct {
	Value  T
	Source Source
	Err    error
}

func (r Result[T]) IsFallback() bool {
	return r.Source == SourceFallback
}

type Analysis struct {
	Tagline     string `json:"tagline"`
	Improvement string `json:"improvement"`
}

var (
	errNoJSON     = errors.New("no json object in model response")
	errIncomplete = errors.New("model response is missing tagline or improvement")
	errBlank      = errors.New("blank model response")
)

type Client struct {
	generator Generator
	limiter   *rate.Limiter
}

// NewClient builds a client around generator. A non-positive rps disables pacing.
func NewClient(generator Generator, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Client{generator: generator, limiter: rate.NewLimiter(limit, 1)}
}

func analysisPrompt(idea string) string {
	return fmt.Sprintf(`Please analyze this business idea: "%s"

Generate:
1. A short, catchy tagline (max 10 words)
2. One specific improvement to make the idea more interesting or unique

Format your response as JSON:
{
  "tagline": "your tagline here",
  "improvement": "your improvement suggestion here"
}`, idea)
}

func followUpPrompt(idea string, question string) string {
	return fmt.Sprintf(`Business idea: "%s"
Question: "%s"

Please provide a helpful and specific answer to this question about the business idea.`, idea, question)
}

func (c *Client) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for model slot: %w", err)
	}

	return c.generator.Generate(ctx, prompt, maxTokens)
}

// Analyze never fails: any model or parse error yields the fallback pair.
func (c *Client) Analyze(ctx context.Context, idea string) Result[Analysis] {
	text, err := c.generate(ctx, analysisPrompt(idea), analysisMaxTokens)

	if err == nil {
		var a *Analysis
		a, err = parseAnalysis(text)
		if err == nil {
			return Result[Analysis]{Value: *a, Source: SourceModel}
		}
	}

	slog.Error(fmt.Sprintf("AI generation error: %s", err.Error()))

	return Result[Analysis]{
		Value:  Analysis{Tagline: FallbackTagline, Improvement: FallbackImprovement},
		Source: SourceFallback,
		Err:    err,
	}
}

// AnswerFollowUp never fails: any model error or blank answer yields FallbackAnswer.
func (c *Client) AnswerFollowUp(ctx context.Context, idea string, question string) Result[string] {
	text, err := c.generate(ctx, followUpPrompt(idea, question), answerMaxTokens)

	if err == nil && strings.TrimSpace(text) == "" {
		err = errBlank
	}

	if err != nil {
		slog.Error(fmt.Sprintf("AI follow-up error: %s", err.Error()))
		return Result[string]{Value: FallbackAnswer, Source: SourceFallback, Err: err}
	}

	return Result[string]{Value: text, Source: SourceModel}
}

// extractJSON returns the span from the first '{' to the last '}'.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end < start {
		return "", errNoJSON
	}

	return text[start : end+1], nil
}

func parseAnalysis(text string) (*Analysis, error) {
	raw, err := extractJSON(text)

	if err != nil {
		return nil, err
	}

	var a Analysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}

	if strings.TrimSpace(a.Tagline) == "" || strings.TrimSpace(a.Improvement) == "" {
		return nil, errIncomplete
	}

	return &a, nil
}
