package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/fault"
)

// AssemblyConfig holds configuration for the AssemblyAI backend.
type AssemblyConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.assemblyai.com"
}

// AssemblyProvider sends the audio bytes in one POST with language detection
// enabled and reads the finished transcript from the response.
type AssemblyProvider struct {
	cfg        AssemblyConfig
	httpClient *http.Client
}

func NewAssemblyProvider(cfg AssemblyConfig) *AssemblyProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.assemblyai.com"
	}
	return &AssemblyProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 300 * time.Second},
	}
}

func (p *AssemblyProvider) Name() ID { return Assembly }

func (p *AssemblyProvider) Transcribe(ctx context.Context, payload *audio.Payload, params Params) (*Transcript, error) {
	endpoint := p.cfg.BaseURL + "/v2/transcript?language_detection=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload.Data))
	if err != nil {
		return nil, fault.Wrap(fault.KindProvider, err, "assembly: build request")
	}
	req.Header.Set("Authorization", p.cfg.APIKey)
	req.Header.Set("Content-Type", payload.MIMEType)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, classifyCallError(Assembly, ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.FromProvider(fault.KindProvider, string(Assembly), "read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fault.FromProvider(fault.KindProvider, string(Assembly), "status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		Status       string `json:"status"`
		Text         string `json:"text"`
		LanguageCode string `json:"language_code"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fault.FromProvider(fault.KindUnexpectedResponse, string(Assembly), "parse response: %v", err)
	}
	if apiResp.Status == "error" || apiResp.Error != "" {
		return nil, fault.FromProvider(fault.KindProvider, string(Assembly), "transcription failed: %s", apiResp.Error)
	}

	return &Transcript{
		Text:     apiResp.Text,
		Language: apiResp.LanguageCode,
		Provider: Assembly,
	}, nil
}
