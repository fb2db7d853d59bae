package generate

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/voicedraft/voicedraft/internal/fault"
)

// ClaudeConfig holds configuration for the Anthropic backend.
type ClaudeConfig struct {
	APIKey string
	Model  string // default: "claude-sonnet-4-20250514"
}

type ClaudeGenerator struct {
	client anthropic.Client
	model  string
}

func NewClaudeGenerator(cfg ClaudeConfig) *ClaudeGenerator {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	return &ClaudeGenerator{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}
}

func (g *ClaudeGenerator) Name() ID { return Claude }

func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fault.FromProvider(fault.KindTimeout, string(Claude), "deadline exceeded")
		}
		return "", fault.FromProvider(fault.KindProvider, string(Claude), "%v", err)
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return "", fault.FromProvider(fault.KindUnexpectedResponse, string(Claude), "response has no text content")
	}
	return content, nil
}
