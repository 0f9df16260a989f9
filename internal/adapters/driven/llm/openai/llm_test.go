package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	require.Error(t, err)
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(Config{APIKey: "sk-test"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestChat_SendsMessagesAndOptions(t *testing.T) {
	var gotReq chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Write([]byte(`{"choices":[{"message":{"content":"hello there"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	answer, err := svc.Chat(context.Background(), []driven.LLMMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	}, driven.GenerateOptions{MaxTokens: 150})
	require.NoError(t, err)

	assert.Equal(t, "hello there", answer)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Equal(t, 150, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestGenerate_WrapsPromptAsUserMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "summarise this", req.Messages[0].Content)

		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	answer, err := svc.Generate(context.Background(), "summarise this", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
}

func TestChat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "sk-bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), []driven.LLMMessage{{Role: "user", Content: "hi"}}, driven.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChatBackend))
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestChat_Unreachable(t *testing.T) {
	svc, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), []driven.LLMMessage{{Role: "user", Content: "hi"}}, driven.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChatBackend))
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	require.NoError(t, svc.Ping(context.Background()))
}
