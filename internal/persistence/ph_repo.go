package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixbrock/ideaspark/internal/domain"
)

const DefaultPHUrl = "https://eu.posthog.com"

type phCapture struct {
	ApiKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctId string         `json:"distinct_id"`
	Timestamp  string         `json:"timestamp"`
	Properties map[string]any `json:"properties"`
}

// PHRepo forwards domain events to PostHog's capture endpoint.
type PHRepo struct {
	BaseHeaders []string
	BaseUrl     string
	ApiKey      string
}

func NewPHRepo(apiKey string, baseUrl string) PHRepo {
	if baseUrl == "" {
		baseUrl = DefaultPHUrl
	}

	return PHRepo{
		BaseHeaders: []string{"Content-Type:application/json"},
		BaseUrl:     strings.TrimRight(baseUrl, "/"),
		ApiKey:      apiKey,
	}
}

func (r PHRepo) Publish(ctx context.Context, event domain.Event) error {
	properties := map[string]any{"idea_id": event.IdeaId}
	if event.FollowUpId != "" {
		properties["follow_up_id"] = event.FollowUpId
	}

	body, err := json.Marshal(phCapture{
		ApiKey:     r.ApiKey,
		Event:      event.Type,
		DistinctId: event.IdeaId,
		Timestamp:  event.At.Format("2006-01-02T15:04:05.000Z07:00"),
		Properties: properties,
	})

	if err != nil {
		return err
	}

	_, err = request[struct{}](ctx, reqConfig{
		Method:  "POST",
		Url:     fmt.Sprintf("%s/capture/", r.BaseUrl),
		Headers: r.BaseHeaders,
		Body:    body},
		200)

	return err
}
