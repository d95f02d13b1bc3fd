package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DefaultOAIBaseUrl = "https://api.openai.com/v1"
	DefaultOAIModel   = "gpt-4o-mini"
)

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiChatReq struct {
	Model     string       `json:"model"`
	Messages  []oaiMessage `json:"messages"`
	MaxTokens int          `json:"max_tokens"`
}

type oaiChoice struct {
	Index   int        `json:"index"`
	Message oaiMessage `json:"message"`
}

type oaiChatResp struct {
	Id      string      `json:"id"`
	Choices []oaiChoice `json:"choices"`
}

// OAIRepo generates text with an OpenAI compatible chat completions endpoint.
type OAIRepo struct {
	BaseHeaders []string
	BaseUrl     string
	Model       string
}

func NewOAIRepo(apiKey string, baseUrl string, model string) OAIRepo {
	if baseUrl == "" {
		baseUrl = DefaultOAIBaseUrl
	}
	if model == "" {
		model = DefaultOAIModel
	}

	return OAIRepo{
		BaseHeaders: []string{
			"Content-Type:application/json",
			fmt.Sprintf("Authorization: Bearer %s", apiKey)},
		BaseUrl: strings.TrimRight(baseUrl, "/"),
		Model:   model,
	}
}

func (r OAIRepo) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(oaiChatReq{
		Model:     r.Model,
		Messages:  []oaiMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})

	if err != nil {
		return "", err
	}

	resp, err := request[oaiChatResp](ctx, reqConfig{
		Method:  "POST",
		Url:     fmt.Sprintf("%s/chat/completions", r.BaseUrl),
		Headers: r.BaseHeaders,
		Body:    body},
		200)

	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errNoText
	}

	return resp.Choices[0].Message.Content, nil
}
