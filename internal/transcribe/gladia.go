package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/fault"
)

// GladiaConfig holds configuration for the Gladia backend.
type GladiaConfig struct {
	APIKey       string
	BaseURL      string        // default: "https://api.gladia.io"
	PollInterval time.Duration // default: 1s
}

// GladiaProvider drives the three-phase upload → submit → poll protocol.
// The poll loop is bounded by the caller's deadline: it stops before the next
// status fetch once the context is done, and a job that never reaches a
// terminal vendor status times out instead of polling forever.
type GladiaProvider struct {
	cfg        GladiaConfig
	httpClient *http.Client
}

func NewGladiaProvider(cfg GladiaConfig) *GladiaProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.gladia.io"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &GladiaProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *GladiaProvider) Name() ID { return Gladia }

func (p *GladiaProvider) Transcribe(ctx context.Context, payload *audio.Payload, params Params) (*Transcript, error) {
	job := NewJob(Gladia, params)

	audioURL, err := p.upload(ctx, payload)
	if err != nil {
		job.fail(err)
		return nil, err
	}
	job.transition(StateUploaded)

	resultURL, err := p.submit(ctx, audioURL, params)
	if err != nil {
		job.fail(err)
		return nil, err
	}
	job.ResultURL = resultURL
	job.transition(StateSubmitted)

	transcript, err := p.poll(ctx, job)
	if err != nil {
		return nil, err
	}
	return transcript, nil
}

func (p *GladiaProvider) upload(ctx context.Context, payload *audio.Payload) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("audio", payload.Filename)
	if err != nil {
		return "", fault.Wrap(fault.KindProvider, err, "gladia: create form file")
	}
	if _, err = fw.Write(payload.Data); err != nil {
		return "", fault.Wrap(fault.KindProvider, err, "gladia: write audio data")
	}
	if err = mw.Close(); err != nil {
		return "", fault.Wrap(fault.KindProvider, err, "gladia: close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v2/upload/", &body)
	if err != nil {
		return "", fault.Wrap(fault.KindProvider, err, "gladia: build upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	p.setAuthHeaders(req)

	var uploadResp struct {
		AudioURL string `json:"audio_url"`
	}
	if err := p.doJSON(ctx, req, &uploadResp); err != nil {
		return "", err
	}
	if uploadResp.AudioURL == "" {
		return "", fault.FromProvider(fault.KindUnexpectedResponse, string(Gladia), "upload response missing audio_url")
	}
	return uploadResp.AudioURL, nil
}

func (p *GladiaProvider) submit(ctx context.Context, audioURL string, params Params) (string, error) {
	reqBody := map[string]any{"audio_url": audioURL}
	if params.Bool(ParamDiarization) {
		reqBody["diarization"] = true
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fault.Wrap(fault.KindProvider, err, "gladia: marshal submit body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v2/transcription/", bytes.NewReader(data))
	if err != nil {
		return "", fault.Wrap(fault.KindProvider, err, "gladia: build submit request")
	}
	req.Header.Set("Content-Type", "application/json")
	p.setAuthHeaders(req)

	var submitResp struct {
		ResultURL string `json:"result_url"`
	}
	if err := p.doJSON(ctx, req, &submitResp); err != nil {
		return "", err
	}
	if submitResp.ResultURL == "" {
		return "", fault.FromProvider(fault.KindUnexpectedResponse, string(Gladia), "submit response missing result_url")
	}
	return submitResp.ResultURL, nil
}

type gladiaResult struct {
	Status string `json:"status"` // queued | processing | done | error
	Result struct {
		Transcription struct {
			FullTranscript string `json:"full_transcript"`
			Languages      []string `json:"languages"`
		} `json:"transcription"`
	} `json:"result"`
	Error json.RawMessage `json:"error"`
}

func (p *GladiaProvider) poll(ctx context.Context, job *Job) (*Transcript, error) {
	job.transition(StatePolling)

	for {
		if err := ctx.Err(); err != nil {
			job.transition(StateTimedOut)
			return nil, fault.FromProvider(fault.KindTimeout, string(Gladia), "deadline exceeded while polling")
		}

		status, err := p.fetchStatus(ctx, job.ResultURL)
		if err != nil {
			job.fail(err)
			return nil, err
		}

		switch status.Status {
		case "done":
			transcript := &Transcript{
				Text:     status.Result.Transcription.FullTranscript,
				Provider: Gladia,
			}
			if len(status.Result.Transcription.Languages) > 0 {
				transcript.Language = status.Result.Transcription.Languages[0]
			}
			job.Transcript = transcript
			job.transition(StateDone)
			return transcript, nil
		case "error":
			detail := string(status.Error)
			job.ErrorDetail = detail
			job.transition(StateErrored)
			return nil, fault.FromProvider(fault.KindProvider, string(Gladia), "transcription failed: %s", detail)
		default:
			// queued, processing, or anything unrecognized: still running
			slog.Debug("gladia job still running", "job_id", job.ID, "status", status.Status)
		}

		select {
		case <-ctx.Done():
			job.transition(StateTimedOut)
			return nil, fault.FromProvider(fault.KindTimeout, string(Gladia), "deadline exceeded while polling")
		case <-time.After(p.cfg.PollInterval):
		}
	}
}

func (p *GladiaProvider) fetchStatus(ctx context.Context, resultURL string) (*gladiaResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return nil, fault.Wrap(fault.KindProvider, err, "gladia: build poll request")
	}
	p.setAuthHeaders(req)

	var result gladiaResult
	if err := p.doJSON(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *GladiaProvider) doJSON(ctx context.Context, req *http.Request, dest any) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return classifyCallError(Gladia, ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fault.FromProvider(fault.KindProvider, string(Gladia), "read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fault.FromProvider(fault.KindProvider, string(Gladia), "status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fault.FromProvider(fault.KindUnexpectedResponse, string(Gladia), "parse response: %v", err)
	}
	return nil
}

func (p *GladiaProvider) setAuthHeaders(req *http.Request) {
	req.Header.Set("x-gladia-key", p.cfg.APIKey)
	req.Header.Set("accept", "application/json")
}
