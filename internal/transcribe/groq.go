package transcribe

import (
	"bytes"
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voicedraft/voicedraft/internal/audio"
)

// GroqConfig holds configuration for the Groq speech backend, which speaks
// the OpenAI-compatible audio API.
type GroqConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.groq.com/openai/v1"
	Model   string // default: "whisper-large-v3-turbo"
}

type GroqProvider struct {
	client *openai.Client
	model  string
}

func NewGroqProvider(cfg GroqConfig) *GroqProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-large-v3-turbo"
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = cfg.BaseURL
	return &GroqProvider{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Model,
	}
}

func (p *GroqProvider) Name() ID { return Groq }

func (p *GroqProvider) Transcribe(ctx context.Context, payload *audio.Payload, params Params) (*Transcript, error) {
	req := openai.AudioRequest{
		Model:    params.Get(ParamModel, p.model),
		FilePath: payload.Filename,
		Reader:   bytes.NewReader(payload.Data),
	}

	resp, err := p.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classifyCallError(Groq, ctx, err)
	}

	return &Transcript{
		Text:     resp.Text,
		Provider: Groq,
	}, nil
}
