package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voicedraft/voicedraft/internal/archive"
	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/queue"
	"github.com/voicedraft/voicedraft/internal/transcribe"
)

const maxUploadBytes = 256 << 20

type TranscriptionHandler struct {
	dispatcher *transcribe.Dispatcher
	archive    *archive.Service
	queue      *queue.Client
}

func NewTranscriptionHandler(dispatcher *transcribe.Dispatcher, arch *archive.Service, qc *queue.Client) *TranscriptionHandler {
	return &TranscriptionHandler{dispatcher: dispatcher, archive: arch, queue: qc}
}

type transcriptionRequest struct {
	Provider string            `json:"provider"`
	URL      string            `json:"url"`
	Params   map[string]string `json:"params,omitempty"`
}

// Create runs one synchronous transcription. The body is either multipart
// form data with an "audio" file, or JSON with a remote URL.
func (h *TranscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		in       audio.Input
		provider string
		params   transcribe.Params
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
			return
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audio file required"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read audio file: " + err.Error()})
			return
		}

		in = audio.Input{
			Data:     data,
			Filename: header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
		}
		provider = r.FormValue("provider")
		params = formParams(r)
	} else {
		var req transcriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		in = audio.Input{URL: req.URL}
		provider = req.Provider
		params = req.Params
	}

	if provider == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provider required"})
		return
	}

	transcript, err := h.dispatcher.Run(r.Context(), transcribe.ID(provider), in, params)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transcript)
}

// SubmitJob enqueues an async transcription of a remote URL.
func (h *TranscriptionHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil || h.queue == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "async jobs require database and redis"})
		return
	}

	var req transcriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Provider == "" || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provider and url required"})
		return
	}
	if !transcribe.ID(req.Provider).Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown provider " + req.Provider})
		return
	}

	job := transcribe.NewJob(transcribe.ID(req.Provider), req.Params)
	rec := archive.Record{
		ID:        job.ID,
		Provider:  job.Provider,
		SourceURL: req.URL,
		Params:    job.Params,
		State:     job.State,
		CreatedAt: job.CreatedAt,
	}
	if err := h.archive.Create(r.Context(), rec); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	err := h.queue.EnqueueTranscriptionRun(queue.TranscriptionRunPayload{
		JobID:     job.ID.String(),
		Provider:  req.Provider,
		SourceURL: req.URL,
		Params:    req.Params,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID.String(), "state": string(job.State)})
}

// GetJob reports an archived job's state and, when terminal, its result.
func (h *TranscriptionHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "async jobs require database"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid job id"})
		return
	}

	rec, err := h.archive.Get(r.Context(), id)
	if errors.Is(err, archive.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func formParams(r *http.Request) transcribe.Params {
	params := transcribe.Params{}
	for _, key := range []string{
		transcribe.ParamModel,
		transcribe.ParamLanguage,
		transcribe.ParamDetectLanguage,
		transcribe.ParamDiarization,
	} {
		if v := r.FormValue(key); v != "" {
			params[key] = v
		}
	}
	return params
}
