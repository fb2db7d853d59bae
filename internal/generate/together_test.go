package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voicedraft/voicedraft/internal/fault"
)

func TestTogetherGenerate(t *testing.T) {
	var gotModel, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer tg-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel = body.Model
		require.Len(t, body.Messages, 1)
		require.Equal(t, "user", body.Messages[0].Role)
		gotPrompt = body.Messages[0].Content

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"# Doc"}}]}`))
	}))
	t.Cleanup(srv.Close)

	g := NewTogetherGenerator(TogetherConfig{APIKey: "tg-key", BaseURL: srv.URL, Model: "test-model"})

	got, err := g.Generate(context.Background(), "make a doc")
	require.NoError(t, err)
	require.Equal(t, "# Doc", got)
	require.Equal(t, "test-model", gotModel)
	require.Equal(t, "make a doc", gotPrompt)
}

func TestTogetherUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	g := NewTogetherGenerator(TogetherConfig{APIKey: "tg-key", BaseURL: srv.URL})

	_, err := g.Generate(context.Background(), "p")
	require.ErrorIs(t, err, fault.ErrProvider)
}
