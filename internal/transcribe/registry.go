package transcribe

import (
	"github.com/voicedraft/voicedraft/internal/config"
	"github.com/voicedraft/voicedraft/internal/fault"
)

// Registry is the fixed table from provider id to adapter, built once at
// process start from config. An id whose credential is absent stays out of
// the table and resolves to a configuration failure, never a network call.
type Registry struct {
	providers map[ID]Provider
}

func NewRegistry(cfg config.SpeechConfig) *Registry {
	r := &Registry{providers: make(map[ID]Provider)}

	if cfg.AssemblyKey != "" {
		r.providers[Assembly] = NewAssemblyProvider(AssemblyConfig{
			APIKey:  cfg.AssemblyKey,
			BaseURL: cfg.AssemblyBaseURL,
		})
	}
	if cfg.DeepgramKey != "" {
		r.providers[Deepgram] = NewDeepgramProvider(DeepgramConfig{
			APIKey:  cfg.DeepgramKey,
			BaseURL: cfg.DeepgramBaseURL,
		})
	}
	if cfg.GladiaKey != "" {
		r.providers[Gladia] = NewGladiaProvider(GladiaConfig{
			APIKey:       cfg.GladiaKey,
			BaseURL:      cfg.GladiaBaseURL,
			PollInterval: cfg.PollInterval,
		})
	}
	if cfg.GroqKey != "" {
		r.providers[Groq] = NewGroqProvider(GroqConfig{APIKey: cfg.GroqKey})
	}
	if cfg.OpenAIKey != "" {
		r.providers[Whisper] = NewWhisperProvider(WhisperConfig{APIKey: cfg.OpenAIKey})
	}

	return r
}

// NewRegistryWithProviders exists for tests and callers that assemble their
// own adapter set.
func NewRegistryWithProviders(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[ID]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Resolve returns the adapter for id. Unknown ids and ids without a
// configured credential both fail with a configuration error.
func (r *Registry) Resolve(id ID) (Provider, error) {
	if !id.Valid() {
		return nil, fault.New(fault.KindConfiguration, "unknown provider %q", string(id))
	}
	p, ok := r.providers[id]
	if !ok {
		return nil, fault.New(fault.KindConfiguration, "provider %q has no credential configured", string(id))
	}
	return p, nil
}

// Available lists the ids that resolved to a configured adapter.
func (r *Registry) Available() []ID {
	var ids []ID
	for _, id := range IDs() {
		if _, ok := r.providers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
