package generate

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voicedraft/voicedraft/internal/fault"
)

// TogetherConfig holds configuration for the Together backend, which speaks
// the OpenAI-compatible chat API.
type TogetherConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.together.xyz/v1"
	Model   string // default: "meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8"
}

type TogetherGenerator struct {
	client *openai.Client
	model  string
}

func NewTogetherGenerator(cfg TogetherConfig) *TogetherGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.together.xyz/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8"
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = cfg.BaseURL
	return &TogetherGenerator{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Model,
	}
}

func (g *TogetherGenerator) Name() ID { return Together }

func (g *TogetherGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fault.FromProvider(fault.KindTimeout, string(Together), "deadline exceeded")
		}
		return "", fault.FromProvider(fault.KindProvider, string(Together), "%v", err)
	}
	if len(resp.Choices) == 0 {
		return "", fault.FromProvider(fault.KindUnexpectedResponse, string(Together), "response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
