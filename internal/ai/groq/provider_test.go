package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(url string) *Provider {
	return NewProvider("test-key", "test-model", url).(*Provider)
}

func TestProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "Hello there", req.Messages[1].Content)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "General Kenobi"}},
			},
		})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	got, err := p.Complete(context.Background(), "Hello there")
	require.NoError(t, err)
	assert.Equal(t, "General Kenobi", got)
}

func TestProvider_Complete_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.Complete(context.Background(), "hi")
	assert.Error(t, err)
}

func TestProvider_Complete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.Complete(context.Background(), "hi")
	assert.Error(t, err)
}

func TestProvider_Complete_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.Complete(context.Background(), "hi")
	assert.Error(t, err)
}

func TestProvider_IsConfigured(t *testing.T) {
	assert.True(t, NewProvider("key", "", "").IsConfigured())
	assert.False(t, NewProvider("", "", "").IsConfigured())
}
