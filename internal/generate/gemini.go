package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/voicedraft/voicedraft/internal/fault"
)

// GeminiConfig holds configuration for the Gemini backend.
type GeminiConfig struct {
	APIKey  string
	BaseURL string // default: "https://generativelanguage.googleapis.com"
	Model   string // default: "models/gemini-1.5-flash"
}

type GeminiGenerator struct {
	cfg        GeminiConfig
	httpClient *http.Client
}

func NewGeminiGenerator(cfg GeminiConfig) *GeminiGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "models/gemini-1.5-flash"
	}
	return &GeminiGenerator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (g *GeminiGenerator) Name() ID { return Gemini }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fault.Wrap(fault.KindProvider, err, "gemini: marshal request")
	}

	endpoint := g.cfg.BaseURL + "/v1beta/" + g.cfg.Model + ":generateContent?key=" + g.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fault.Wrap(fault.KindProvider, err, "gemini: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fault.FromProvider(fault.KindTimeout, string(Gemini), "deadline exceeded")
		}
		return "", fault.FromProvider(fault.KindProvider, string(Gemini), "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fault.FromProvider(fault.KindProvider, string(Gemini), "read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fault.FromProvider(fault.KindProvider, string(Gemini), "status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fault.FromProvider(fault.KindUnexpectedResponse, string(Gemini), "parse response: %v", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fault.FromProvider(fault.KindUnexpectedResponse, string(Gemini), "response has no candidates")
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}
