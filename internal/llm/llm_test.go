package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BlockRunAI/PredictOS/internal/config"
	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestResponsesClientRespond(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4.1", body["model"])
		assert.Equal(t, "system prompt", body["instructions"])
		assert.Equal(t, "user prompt", body["input"])
		assert.EqualValues(t, 4096, body["max_output_tokens"])
		assert.Equal(t, map[string]any{"format": map[string]any{"type": "json_object"}}, body["text"])

		_, _ = io.WriteString(w, `{
		  "model": "gpt-4.1-2025-04-14",
		  "output": [
		    {"type": "reasoning", "summary": []},
		    {"type": "message", "content": [{"type": "output_text", "text": "{\"a\":"}]},
		    {"type": "message", "content": [{"type": "output_text", "text": "1}"}]}
		  ],
		  "usage": {"input_tokens": 10, "output_tokens": 5, "total_tokens": 15}
		}`)
	}))
	defer srv.Close()

	c := NewResponsesClient("openai", config.BackendConfig{BaseURL: srv.URL + "/v1/", APIKey: "sk-test"}, quietLogger())
	res, err := c.Respond(context.Background(), interfaces.RespondRequest{
		Model:        "gpt-4.1",
		Instructions: "system prompt",
		Input:        "user prompt",
		MaxTokens:    4096,
		Format:       interfaces.OutputJSONObject,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, res.Text)
	assert.Equal(t, "gpt-4.1-2025-04-14", res.Model)
	require.NotNil(t, res.TokensUsed)
	assert.Equal(t, 15, *res.TokensUsed)
}

func TestResponsesClientNoUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"output": [{"type": "message", "content": [{"type": "output_text", "text": "fed rate"}]}]}`)
	}))
	defer srv.Close()

	c := NewResponsesClient("xai", config.BackendConfig{BaseURL: srv.URL}, quietLogger())
	res, err := c.Respond(context.Background(), interfaces.RespondRequest{Model: "grok-4", Input: "x", Format: interfaces.OutputText})
	require.NoError(t, err)
	assert.Equal(t, "fed rate", res.Text)
	assert.Equal(t, "grok-4", res.Model)
	assert.Nil(t, res.TokensUsed)
}

func TestResponsesClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewResponsesClient("xai", config.BackendConfig{BaseURL: srv.URL}, quietLogger())
	_, err := c.Respond(context.Background(), interfaces.RespondRequest{Model: "grok-4", Input: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUpstream)
	assert.Contains(t, err.Error(), "429")
}

type namedBackend string

func (n namedBackend) Name() string { return string(n) }

func (n namedBackend) Respond(context.Context, interfaces.RespondRequest) (*interfaces.RespondResult, error) {
	return &interfaces.RespondResult{}, nil
}

func TestRouterSelect(t *testing.T) {
	openai, xai := namedBackend("openai"), namedBackend("xai")
	r := NewRouter(openai, xai, config.RoutingConfig{
		Prefixes: []string{"gpt-"},
		Models:   []string{"o1", "o3-mini", "o4-mini"},
	})

	primary := []string{"gpt-4.1", "gpt-5", "GPT-4o", "o1", "o3-mini", "o4-mini"}
	fallback := []string{"grok-4", "grok-3-mini", "o3-pro", "gpt4", "", "claude"}

	for _, m := range primary {
		assert.Equal(t, "openai", r.Select(m).Name(), m)
	}
	for _, m := range fallback {
		assert.Equal(t, "xai", r.Select(m).Name(), m)
	}
	for _, m := range append(primary, fallback...) {
		assert.Equal(t, r.Select(m), r.Select(m), "selection must be deterministic for %q", m)
	}
}
