package generate

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"time"

	"lukechampine.com/blake3"

	"github.com/voicedraft/voicedraft/internal/cache"
)

// Service fills the prompt template, resolves the generator and memoizes
// results the same way transcriptions are memoized: generation calls are
// expensive and idempotent for identical inputs.
type Service struct {
	registry *Registry
	cache    cache.Store
	timeout  time.Duration
}

func NewService(registry *Registry, store cache.Store, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Service{registry: registry, cache: store, timeout: timeout}
}

// Generate produces the document text for a transcript and template.
func (s *Service) Generate(ctx context.Context, id ID, transcript, template string) (string, error) {
	prompt, err := Fill(template, transcript)
	if err != nil {
		return "", err
	}

	key := fingerprint(id, transcript, template)
	var cached string
	err = s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		slog.Debug("generation served from cache", "generator", id, "fingerprint", key)
		return cached, nil
	case !errors.Is(err, cache.ErrMiss):
		slog.Warn("cache read failed", "fingerprint", key, "error", err)
	}

	gen, err := s.registry.Resolve(id)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	doc, err := gen.Generate(callCtx, prompt)
	if err != nil {
		return "", err
	}
	slog.Info("document generated",
		"generator", id,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if err := s.cache.Put(ctx, key, doc); err != nil {
		slog.Warn("cache write failed", "fingerprint", key, "error", err)
	}
	return doc, nil
}

func fingerprint(id ID, transcript, template string) string {
	h := blake3.New(32, nil)
	hashField(h, []byte(id))
	hashField(h, []byte(transcript))
	hashField(h, []byte(template))
	return hex.EncodeToString(h.Sum(nil))
}

// hashField length-prefixes the field so boundaries survive in the hash
// stream no matter what bytes the field itself contains.
func hashField(w io.Writer, b []byte) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(b)))
	w.Write(n[:])
	w.Write(b)
}
