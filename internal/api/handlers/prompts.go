package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicedraft/voicedraft/internal/prompts"
)

type PromptHandler struct {
	store *prompts.Store
}

func NewPromptHandler(store *prompts.Store) *PromptHandler {
	return &PromptHandler{store: store}
}

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := h.store.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "prompt " + name + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p prompts.Prompt
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.store.Add(p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ok, err := h.store.Delete(name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "prompt " + name + " not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
