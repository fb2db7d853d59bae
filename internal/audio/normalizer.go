package audio

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/voicedraft/voicedraft/internal/fault"
)

const (
	// DefaultFilename is the synthesized name given to audio fetched from a URL.
	DefaultFilename = "audio.webm"
	// DefaultMIMEType is the one input format the transcription vendors accept.
	DefaultMIMEType = "audio/webm"

	maxFetchBytes = 256 << 20 // refuse absurdly large remote files
)

// Input is the raw reference handed in by the caller: either uploaded bytes
// with a filename, or a remote URL. Exactly one variant may be populated.
type Input struct {
	Data     []byte
	Filename string
	MIMEType string
	URL      string
}

// Payload is the canonical in-memory audio representation every provider
// adapter consumes. It is immutable once constructed.
type Payload struct {
	Data     []byte
	Filename string
	MIMEType string
}

// Normalizer turns an Input into a Payload, fetching remote URLs as needed.
type Normalizer struct {
	httpClient *http.Client
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewNormalizerWithClient exists so tests can inject a fake HTTP client.
func NewNormalizerWithClient(c *http.Client) *Normalizer {
	return &Normalizer{httpClient: c}
}

// Normalize materializes the input as bytes. URL inputs are fetched here, not
// cached: the dispatcher keys its cache on normalized content, so distinct
// URLs resolving to identical bytes share a cache entry.
func (n *Normalizer) Normalize(ctx context.Context, in Input) (*Payload, error) {
	switch {
	case len(in.Data) > 0 && in.URL != "":
		return nil, fault.New(fault.KindInvalidInput, "both uploaded bytes and a URL supplied")
	case len(in.Data) > 0:
		p := &Payload{
			Data:     in.Data,
			Filename: in.Filename,
			MIMEType: in.MIMEType,
		}
		if p.Filename == "" {
			p.Filename = DefaultFilename
		}
		if p.MIMEType == "" {
			p.MIMEType = DefaultMIMEType
		}
		return p, nil
	case in.URL != "":
		return n.fetch(ctx, in.URL)
	default:
		return nil, fault.New(fault.KindInvalidInput, "no audio bytes or URL supplied")
	}
}

func (n *Normalizer) fetch(ctx context.Context, url string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fault.Wrap(fault.KindInvalidInput, err, "build fetch request for %s", url)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.KindFetch, err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fault.New(fault.KindFetch, "fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fault.Wrap(fault.KindFetch, err, "read body of %s", url)
	}
	if len(data) > maxFetchBytes {
		return nil, fault.New(fault.KindFetch, "fetch %s: body exceeds %d bytes", url, maxFetchBytes)
	}
	if len(data) == 0 {
		return nil, fault.New(fault.KindFetch, "fetch %s: empty body", url)
	}

	return &Payload{
		Data:     data,
		Filename: DefaultFilename,
		MIMEType: DefaultMIMEType,
	}, nil
}
