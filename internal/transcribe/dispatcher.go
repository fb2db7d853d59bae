package transcribe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/cache"
)

// Dispatcher is the façade over the core: it normalizes the input, consults
// the cache, resolves the provider and invokes it under a deadline. Cache
// population happens only on success so a transient vendor error never
// poisons future identical requests.
type Dispatcher struct {
	normalizer *audio.Normalizer
	registry   *Registry
	cache      cache.Store
	timeout    time.Duration
}

func NewDispatcher(normalizer *audio.Normalizer, registry *Registry, store cache.Store, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Dispatcher{
		normalizer: normalizer,
		registry:   registry,
		cache:      store,
		timeout:    timeout,
	}
}

// Run executes one transcription request end to end. Typed failures from the
// normalizer, registry or adapter propagate unchanged.
func (d *Dispatcher) Run(ctx context.Context, id ID, in audio.Input, params Params) (*Transcript, error) {
	transcript, _, err := d.RunKeyed(ctx, id, in, params)
	return transcript, err
}

// RunKeyed behaves like Run but also reports the content fingerprint the
// result is cached under, for callers that archive outcomes.
func (d *Dispatcher) RunKeyed(ctx context.Context, id ID, in audio.Input, params Params) (*Transcript, string, error) {
	payload, err := d.normalizer.Normalize(ctx, in)
	if err != nil {
		return nil, "", err
	}

	fp := Fingerprint(id, payload, params)

	var cached Transcript
	err = d.cache.Get(ctx, fp, &cached)
	switch {
	case err == nil:
		slog.Debug("transcription served from cache", "provider", id, "fingerprint", fp)
		return &cached, fp, nil
	case !errors.Is(err, cache.ErrMiss):
		// A broken cache must not fail the request.
		slog.Warn("cache read failed", "fingerprint", fp, "error", err)
	}

	provider, err := d.registry.Resolve(id)
	if err != nil {
		return nil, fp, err
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	transcript, err := provider.Transcribe(callCtx, payload, params)
	if err != nil {
		return nil, fp, err
	}
	slog.Info("transcription complete",
		"provider", id,
		"bytes", len(payload.Data),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if err := d.cache.Put(ctx, fp, transcript); err != nil {
		slog.Warn("cache write failed", "fingerprint", fp, "error", err)
	}
	return transcript, fp, nil
}
