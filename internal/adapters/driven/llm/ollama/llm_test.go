package ollama

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

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		require.NotNil(t, req.Options)
		assert.Equal(t, 150, req.Options.NumPredict)

		w.Write([]byte(`{"response":"forty-two","done":true}`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL})

	answer, err := svc.Generate(context.Background(), "what is the answer?", driven.GenerateOptions{MaxTokens: 150})
	require.NoError(t, err)
	assert.Equal(t, "forty-two", answer)
}

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Write([]byte(`{"message":{"role":"assistant","content":"hi back"},"done":true}`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL})

	answer, err := svc.Chat(context.Background(), []driven.LLMMessage{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
	}, driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hi back", answer)
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`model not found`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL})

	_, err := svc.Generate(context.Background(), "hi", driven.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChatBackend))
}

func TestGenerate_Unreachable(t *testing.T) {
	svc := NewLLMService(LLMConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := svc.Generate(context.Background(), "hi", driven.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChatBackend))
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL})
	require.NoError(t, svc.Ping(context.Background()))
}
