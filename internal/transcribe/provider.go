// Package transcribe is the provider orchestration core: a uniform
// abstraction over heterogeneous speech-to-text vendors, some synchronous and
// one submit-then-poll, fronted by a dispatcher with content-addressed result
// memoization.
package transcribe

import (
	"context"
	"sort"
	"strings"

	"github.com/voicedraft/voicedraft/internal/audio"
)

// ID identifies one of the registered speech-to-text vendors. The set is
// closed: resolution never evaluates a user-chosen string as anything other
// than a table key.
type ID string

const (
	Assembly ID = "assembly"
	Deepgram ID = "deepgram"
	Gladia   ID = "gladia"
	Groq     ID = "groq"
	Whisper  ID = "whisper"
)

// IDs returns every enumerated provider id.
func IDs() []ID {
	return []ID{Assembly, Deepgram, Gladia, Groq, Whisper}
}

func (id ID) Valid() bool {
	switch id {
	case Assembly, Deepgram, Gladia, Groq, Whisper:
		return true
	}
	return false
}

// Well-known Params keys. Adapters ignore keys they have no use for, but
// every key participates in the cache fingerprint.
const (
	ParamModel          = "model"
	ParamLanguage       = "language"
	ParamDetectLanguage = "detect_language"
	ParamDiarization    = "diarization"
)

// Params is the open key-value provider configuration attached to a request.
type Params map[string]string

func (p Params) Get(key, fallback string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (p Params) Bool(key string) bool {
	v := strings.ToLower(p[key])
	return v == "true" || v == "1" || v == "yes"
}

// paramEscaper guards the delimiters Canonical joins pairs with, so a key or
// value containing '=' or a newline cannot collide with a different map.
var paramEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "=", `\=`)

// Canonical renders the params in a stable order for fingerprinting. The
// rendering is injective: distinct maps never produce the same string.
func (p Params) Canonical() string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(paramEscaper.Replace(k))
		b.WriteByte('=')
		b.WriteString(paramEscaper.Replace(p[k]))
	}
	return b.String()
}

// Transcript is the finished output of a transcription call.
type Transcript struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Provider ID      `json:"provider"`
	Duration float64 `json:"duration,omitempty"`
}

// Provider is the polymorphic transcription capability. Implementations are
// either single round trip or submit-then-poll; both respect the deadline
// carried by ctx as a hard upper bound on every network call.
type Provider interface {
	Transcribe(ctx context.Context, payload *audio.Payload, params Params) (*Transcript, error)
	Name() ID
}
