package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL, Dimensions: 2})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestEmbedBatch_SingleRequestOrderedByIndex(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 2)

		// Return data out of order; the adapter must reorder by index.
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{2, 2}, "index": 1},
				{"embedding": []float64{1, 1}, "index": 0},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	got, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1}, got[0])
	assert.Equal(t, []float32{2, 2}, got[1])
}

func TestEmbed_APIErrorIsSentinel(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "bad key", "type": "invalid_request_error"},
		})
	})

	_, err := svc.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrEmbeddingBackend)
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)

	got, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDimensions_FromModelTable(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, svc.Dimensions())
}
