package transcribe

import (
	"bytes"
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/fault"
)

// WhisperConfig holds configuration for the OpenAI Whisper backend.
type WhisperConfig struct {
	APIKey  string
	BaseURL string // default: the public OpenAI endpoint
	Model   string // default: "whisper-1"
}

// WhisperProvider transcribes audio in a single round trip against the
// OpenAI audio-transcription API.
type WhisperProvider struct {
	client *openai.Client
	model  string
}

func NewWhisperProvider(cfg WhisperConfig) *WhisperProvider {
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &WhisperProvider{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Model,
	}
}

func (p *WhisperProvider) Name() ID { return Whisper }

func (p *WhisperProvider) Transcribe(ctx context.Context, payload *audio.Payload, params Params) (*Transcript, error) {
	req := openai.AudioRequest{
		Model:    params.Get(ParamModel, p.model),
		FilePath: payload.Filename,
		Reader:   bytes.NewReader(payload.Data),
	}
	if lang := params.Get(ParamLanguage, ""); lang != "" {
		req.Language = lang
	}

	resp, err := p.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classifyCallError(Whisper, ctx, err)
	}

	return &Transcript{
		Text:     resp.Text,
		Language: resp.Language,
		Provider: Whisper,
		Duration: resp.Duration,
	}, nil
}

// classifyCallError separates deadline expiry from vendor failure so the
// dispatcher never has to widen one into the other.
func classifyCallError(id ID, ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fault.FromProvider(fault.KindTimeout, string(id), "deadline exceeded")
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fault.FromProvider(fault.KindTimeout, string(id), "canceled: %v", err)
	}
	return fault.FromProvider(fault.KindProvider, string(id), "%v", err)
}
