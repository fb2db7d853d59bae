package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/fault"
)

// DeepgramConfig holds configuration for the Deepgram backend.
type DeepgramConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.deepgram.com"
	Model   string // default: "nova-2"
}

// DeepgramProvider posts the raw audio bytes once and reads the transcript
// out of the response body.
type DeepgramProvider struct {
	cfg        DeepgramConfig
	httpClient *http.Client
}

func NewDeepgramProvider(cfg DeepgramConfig) *DeepgramProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepgram.com"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	return &DeepgramProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 300 * time.Second},
	}
}

func (p *DeepgramProvider) Name() ID { return Deepgram }

func (p *DeepgramProvider) Transcribe(ctx context.Context, payload *audio.Payload, params Params) (*Transcript, error) {
	q := url.Values{}
	q.Set("model", params.Get(ParamModel, p.cfg.Model))
	if params.Get(ParamDetectLanguage, "true") != "false" {
		q.Set("detect_language", "true")
	}

	endpoint := p.cfg.BaseURL + "/v1/listen?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload.Data))
	if err != nil {
		return nil, fault.Wrap(fault.KindProvider, err, "deepgram: build request")
	}
	req.Header.Set("Authorization", "Token "+p.cfg.APIKey)
	req.Header.Set("Content-Type", payload.MIMEType)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, classifyCallError(Deepgram, ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.FromProvider(fault.KindProvider, string(Deepgram), "read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fault.FromProvider(fault.KindProvider, string(Deepgram), "status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		Results struct {
			Channels []struct {
				DetectedLanguage string `json:"detected_language"`
				Alternatives     []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fault.FromProvider(fault.KindUnexpectedResponse, string(Deepgram), "parse response: %v", err)
	}
	if len(apiResp.Results.Channels) == 0 || len(apiResp.Results.Channels[0].Alternatives) == 0 {
		return nil, fault.FromProvider(fault.KindUnexpectedResponse, string(Deepgram), "response has no transcript alternatives")
	}

	ch := apiResp.Results.Channels[0]
	return &Transcript{
		Text:     ch.Alternatives[0].Transcript,
		Language: ch.DetectedLanguage,
		Provider: Deepgram,
	}, nil
}
