package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voicedraft/voicedraft/internal/fault"
)

func TestNormalize_UploadedBytes(t *testing.T) {
	n := NewNormalizer()

	p, err := n.Normalize(context.Background(), Input{
		Data:     []byte("webm-bytes"),
		Filename: "meeting.webm",
		MIMEType: "audio/webm",
	})
	require.NoError(t, err)
	require.Equal(t, []byte("webm-bytes"), p.Data)
	require.Equal(t, "meeting.webm", p.Filename)
	require.Equal(t, "audio/webm", p.MIMEType)
}

func TestNormalize_UploadedBytesDefaults(t *testing.T) {
	n := NewNormalizer()

	p, err := n.Normalize(context.Background(), Input{Data: []byte("x")})
	require.NoError(t, err)
	require.Equal(t, DefaultFilename, p.Filename)
	require.Equal(t, DefaultMIMEType, p.MIMEType)
}

func TestNormalize_FetchesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote-audio"))
	}))
	defer srv.Close()

	n := NewNormalizer()
	p, err := n.Normalize(context.Background(), Input{URL: srv.URL + "/rec.webm"})
	require.NoError(t, err)
	require.Equal(t, []byte("remote-audio"), p.Data)
	require.Equal(t, DefaultFilename, p.Filename)
	require.Equal(t, DefaultMIMEType, p.MIMEType)
}

func TestNormalize_FetchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	n := NewNormalizer()
	_, err := n.Normalize(context.Background(), Input{URL: srv.URL})
	require.ErrorIs(t, err, fault.ErrFetch)
}

func TestNormalize_FetchErrorOnUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	n := NewNormalizer()
	_, err := n.Normalize(context.Background(), Input{URL: url})
	require.ErrorIs(t, err, fault.ErrFetch)
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize(context.Background(), Input{})
	require.ErrorIs(t, err, fault.ErrInvalidInput)
}

func TestNormalize_BothVariantsRejected(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize(context.Background(), Input{Data: []byte("x"), URL: "https://example.com/a.webm"})
	require.ErrorIs(t, err, fault.ErrInvalidInput)
}
