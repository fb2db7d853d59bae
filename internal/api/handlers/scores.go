package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/voicedraft/voicedraft/internal/score"
)

type ScoreHandler struct{}

func NewScoreHandler() *ScoreHandler {
	return &ScoreHandler{}
}

type scoreRequest struct {
	Text string `json:"text"`
}

// Create scores a document against the rubric. Pure computation: identical
// text always yields the identical report.
func (h *ScoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		return
	}

	writeJSON(w, http.StatusOK, score.Score(req.Text))
}
