package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixbrock/ideaspark/internal/analysis"
)

var (
	_ analysis.Generator = AnthropicRepo{}
	_ analysis.Generator = OAIRepo{}
	_ analysis.Generator = (*OllamaRepo)(nil)
)

func TestAnthropicRepoGenerate(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [{"type": "text", "text": "Start with a loyalty card."}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	t.Cleanup(srv.Close)

	repo := NewAnthropicRepo("test-key", "", option.WithBaseURL(srv.URL))

	text, err := repo.Generate(context.Background(), "How do I market this?", 500)

	require.NoError(t, err)
	assert.Equal(t, "Start with a loyalty card.", text)
	assert.Equal(t, DefaultAnthropicModel, got["model"])
	assert.EqualValues(t, 500, got["max_tokens"])
}

func TestAnthropicRepoDoesNotRetry(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`))
	}))
	t.Cleanup(srv.Close)

	repo := NewAnthropicRepo("test-key", "claude-test", option.WithBaseURL(srv.URL))

	_, err := repo.Generate(context.Background(), "prompt", 10)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOAIRepoGenerate(t *testing.T) {
	var got oaiChatReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"{\"tagline\":\"t\",\"improvement\":\"i\"}"}}]}`))
	}))
	t.Cleanup(srv.Close)

	repo := NewOAIRepo("sk-test", srv.URL+"/", "")

	text, err := repo.Generate(context.Background(), "analyze", 1000)

	require.NoError(t, err)
	assert.Equal(t, `{"tagline":"t","improvement":"i"}`, text)
	assert.Equal(t, DefaultOAIModel, got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, oaiMessage{Role: "user", Content: "analyze"}, got.Messages[0])
}

func TestOAIRepoNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewOAIRepo("sk", srv.URL, "m").Generate(context.Background(), "p", 1)

	assert.ErrorIs(t, err, errNoText)
}

func TestOllamaRepoCancelledContext(t *testing.T) {
	repo, err := NewOllamaRepo("http://127.0.0.1:11434", "llama3")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.Generate(ctx, "p", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
