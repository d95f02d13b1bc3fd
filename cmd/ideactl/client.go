package main

import (
	"context"
	"fmt"
	"time"

	"github.com/felixbrock/ideaspark/internal/domain"
	"github.com/go-resty/resty/v2"
)

type apiError struct {
	Error string `json:"error"`
}

// Client wraps the IdeaSpark JSON API. Analysis calls on the server can take a
// while, so the timeout is generous.
type Client struct {
	http *resty.Client
}

func newClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(90 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

func do[T any](ctx context.Context, req *resty.Request, method string, path string) (*T, error) {
	var result T
	var apiErr apiError

	resp, err := req.
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr).
		Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.String()
		}
		return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode(), msg)
	}

	return &result, nil
}

func (c *Client) ListIdeas(ctx context.Context) ([]domain.Idea, error) {
	ideas, err := do[[]domain.Idea](ctx, c.http.R(), resty.MethodGet, "/ideas")
	if err != nil {
		return nil, err
	}
	return *ideas, nil
}

func (c *Client) GetIdea(ctx context.Context, id string) (*domain.Idea, error) {
	return do[domain.Idea](ctx, c.http.R().SetPathParam("id", id), resty.MethodGet, "/ideas/{id}")
}

func (c *Client) CreateIdea(ctx context.Context, text string) (*domain.Idea, error) {
	req := c.http.R().SetBody(map[string]string{"idea": text})
	return do[domain.Idea](ctx, req, resty.MethodPost, "/ideas")
}

func (c *Client) AskFollowUp(ctx context.Context, id string, question string) (*domain.FollowUpQuestion, error) {
	req := c.http.R().
		SetPathParam("id", id).
		SetBody(map[string]string{"question": question})
	return do[domain.FollowUpQuestion](ctx, req, resty.MethodPost, "/ideas/{id}/follow-up")
}
