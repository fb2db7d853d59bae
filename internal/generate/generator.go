// Package generate turns a transcript plus a prompt template into a
// structured document via one of the interchangeable text-generation
// backends.
package generate

import (
	"context"

	"github.com/voicedraft/voicedraft/internal/config"
	"github.com/voicedraft/voicedraft/internal/fault"
)

// ID identifies one of the registered text-generation vendors.
type ID string

const (
	Gemini   ID = "gemini"
	Together ID = "together"
	Claude   ID = "claude"
)

func IDs() []ID {
	return []ID{Gemini, Together, Claude}
}

func (id ID) Valid() bool {
	switch id {
	case Gemini, Together, Claude:
		return true
	}
	return false
}

// Generator is the polymorphic generation capability: one prompt in, the
// provider's response text out, verbatim.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() ID
}

// Registry mirrors the transcription registry: a fixed id-to-adapter table
// built from config at process start.
type Registry struct {
	generators map[ID]Generator
}

func NewRegistry(cfg config.GenerateConfig) *Registry {
	r := &Registry{generators: make(map[ID]Generator)}

	if cfg.GeminiKey != "" {
		r.generators[Gemini] = NewGeminiGenerator(GeminiConfig{
			APIKey:  cfg.GeminiKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
		})
	}
	if cfg.TogetherKey != "" {
		r.generators[Together] = NewTogetherGenerator(TogetherConfig{
			APIKey: cfg.TogetherKey,
			Model:  cfg.TogetherModel,
		})
	}
	if cfg.AnthropicKey != "" {
		r.generators[Claude] = NewClaudeGenerator(ClaudeConfig{
			APIKey: cfg.AnthropicKey,
			Model:  cfg.AnthropicModel,
		})
	}

	return r
}

func NewRegistryWithGenerators(generators ...Generator) *Registry {
	r := &Registry{generators: make(map[ID]Generator, len(generators))}
	for _, g := range generators {
		r.generators[g.Name()] = g
	}
	return r
}

func (r *Registry) Resolve(id ID) (Generator, error) {
	if !id.Valid() {
		return nil, fault.New(fault.KindConfiguration, "unknown generator %q", string(id))
	}
	g, ok := r.generators[id]
	if !ok {
		return nil, fault.New(fault.KindConfiguration, "generator %q has no credential configured", string(id))
	}
	return g, nil
}

func (r *Registry) Available() []ID {
	var ids []ID
	for _, id := range IDs() {
		if _, ok := r.generators[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
