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

func geminiResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPrompt = body.Contents[0].Parts[0].Text

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiResponse("# Generated PRD"))
	}))
	t.Cleanup(srv.Close)

	g := NewGeminiGenerator(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})

	got, err := g.Generate(context.Background(), "build me a thing")
	require.NoError(t, err)
	require.Equal(t, "# Generated PRD", got)
	require.Equal(t, "build me a thing", gotPrompt)
}

func TestGeminiNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	g := NewGeminiGenerator(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := g.Generate(context.Background(), "p")
	require.ErrorIs(t, err, fault.ErrProvider)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	t.Cleanup(srv.Close)

	g := NewGeminiGenerator(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := g.Generate(context.Background(), "p")
	require.ErrorIs(t, err, fault.ErrUnexpectedResponse)
}
