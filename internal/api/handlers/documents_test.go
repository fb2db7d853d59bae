package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voicedraft/voicedraft/internal/cache"
	"github.com/voicedraft/voicedraft/internal/generate"
	"github.com/voicedraft/voicedraft/internal/prompts"
	"github.com/voicedraft/voicedraft/internal/score"
)

type staticGenerator struct {
	id     generate.ID
	output string
}

func (g *staticGenerator) Name() generate.ID { return g.id }

func (g *staticGenerator) Generate(context.Context, string) (string, error) {
	return g.output, nil
}

func newDocumentHandler(t *testing.T, output string) *DocumentHandler {
	svc := generate.NewService(
		generate.NewRegistryWithGenerators(&staticGenerator{id: generate.Gemini, output: output}),
		cache.NewMemory(0),
		time.Minute,
	)
	store, err := prompts.Open(filepath.Join(t.TempDir(), "prompts.json"))
	require.NoError(t, err)
	require.NoError(t, store.Add(prompts.Prompt{Name: "prd", Content: "Write a PRD: {transcript}"}))
	return NewDocumentHandler(svc, store)
}

func TestDocumentCreate(t *testing.T) {
	h := newDocumentHandler(t, "# Generated")

	body := `{"transcript":"a todo app","generator":"gemini","prompt_name":"prd"}`
	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Document string        `json:"document"`
		Score    *score.Report `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "# Generated", resp.Document)
	require.Nil(t, resp.Score)
}

func TestDocumentCreateScoreQueryParam(t *testing.T) {
	h := newDocumentHandler(t, "1. Overview")

	body := `{"transcript":"a todo app","generator":"gemini","prompt_name":"prd"}`
	req := httptest.NewRequest(http.MethodPost, "/documents?score=true", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Document string        `json:"document"`
		Score    *score.Report `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "1. Overview", resp.Document)
	require.NotNil(t, resp.Score)
	expected := score.Score("1. Overview")
	require.Equal(t, expected.Clarity, resp.Score.Clarity)
	require.Equal(t, expected.Consistency, resp.Score.Consistency)
	require.True(t, expected.Total.Equal(resp.Score.Total))
}

func TestDocumentCreateUnknownPrompt(t *testing.T) {
	h := newDocumentHandler(t, "doc")

	body := `{"transcript":"t","generator":"gemini","prompt_name":"missing"}`
	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentCreateInlineTemplate(t *testing.T) {
	h := newDocumentHandler(t, "doc")

	body := `{"transcript":"t","generator":"gemini","template":"Summarize: {transcript}"}`
	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
