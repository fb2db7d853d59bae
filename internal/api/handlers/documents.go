package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/voicedraft/voicedraft/internal/generate"
	"github.com/voicedraft/voicedraft/internal/prompts"
	"github.com/voicedraft/voicedraft/internal/score"
)

type DocumentHandler struct {
	generator *generate.Service
	prompts   *prompts.Store
}

func NewDocumentHandler(generator *generate.Service, store *prompts.Store) *DocumentHandler {
	return &DocumentHandler{generator: generator, prompts: store}
}

type documentRequest struct {
	Transcript string `json:"transcript"`
	Generator  string `json:"generator"`
	PromptName string `json:"prompt_name,omitempty"`
	Template   string `json:"template,omitempty"`
}

type documentResponse struct {
	Document string        `json:"document"`
	Score    *score.Report `json:"score,omitempty"`
}

// Create generates a structured document from a transcript and a prompt
// template. With ?score=true the response also carries the rubric report.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Transcript == "" || req.Generator == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "transcript and generator required"})
		return
	}

	template := req.Template
	if template == "" {
		if req.PromptName == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prompt_name or template required"})
			return
		}
		p, ok := h.prompts.Get(req.PromptName)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "prompt " + req.PromptName + " not found"})
			return
		}
		template = p.Content
	}

	doc, err := h.generator.Generate(r.Context(), generate.ID(req.Generator), req.Transcript, template)
	if err != nil {
		writeFailure(w, err)
		return
	}

	resp := documentResponse{Document: doc}
	if r.URL.Query().Get("score") == "true" {
		report := score.Score(doc)
		resp.Score = &report
	}

	writeJSON(w, http.StatusOK, resp)
}
