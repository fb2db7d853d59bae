package transcribe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/cache"
	"github.com/voicedraft/voicedraft/internal/fault"
)

type fakeProvider struct {
	id    ID
	calls int
	text  string
	err   error
}

func (f *fakeProvider) Name() ID { return f.id }

func (f *fakeProvider) Transcribe(_ context.Context, _ *audio.Payload, _ Params) (*Transcript, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Transcript{Text: f.text, Provider: f.id}, nil
}

func newTestDispatcher(providers ...Provider) *Dispatcher {
	return NewDispatcher(
		audio.NewNormalizer(),
		NewRegistryWithProviders(providers...),
		cache.NewMemory(0),
		time.Minute,
	)
}

func TestDispatcherCachesIdenticalRequests(t *testing.T) {
	fake := &fakeProvider{id: Whisper, text: "hello world"}
	d := newTestDispatcher(fake)

	in := audio.Input{Data: []byte("audio-bytes")}
	params := Params{ParamLanguage: "en"}

	first, err := d.Run(context.Background(), Whisper, in, params)
	require.NoError(t, err)
	require.Equal(t, "hello world", first.Text)

	second, err := d.Run(context.Background(), Whisper, in, params)
	require.NoError(t, err)
	require.Equal(t, first.Text, second.Text)
	require.Equal(t, 1, fake.calls)
}

func TestDispatcherDistinctParamsMissCache(t *testing.T) {
	fake := &fakeProvider{id: Whisper, text: "ok"}
	d := newTestDispatcher(fake)

	in := audio.Input{Data: []byte("audio-bytes")}

	_, err := d.Run(context.Background(), Whisper, in, Params{ParamLanguage: "en"})
	require.NoError(t, err)
	_, err = d.Run(context.Background(), Whisper, in, Params{ParamLanguage: "fr"})
	require.NoError(t, err)

	require.Equal(t, 2, fake.calls)
}

func TestDispatcherDelimiterBearingParamsMissCache(t *testing.T) {
	fake := &fakeProvider{id: Whisper, text: "ok"}
	d := newTestDispatcher(fake)

	in := audio.Input{Data: []byte("audio-bytes")}

	// The two maps render differently even though a naive k=v join would
	// collide, so neither request may be served the other's transcript.
	_, err := d.Run(context.Background(), Whisper, in, Params{"a": "b\nc=d"})
	require.NoError(t, err)
	_, err = d.Run(context.Background(), Whisper, in, Params{"a": "b", "c": "d"})
	require.NoError(t, err)

	require.Equal(t, 2, fake.calls)
}

func TestDispatcherDistinctProvidersMissCache(t *testing.T) {
	whisper := &fakeProvider{id: Whisper, text: "from whisper"}
	groq := &fakeProvider{id: Groq, text: "from groq"}
	d := newTestDispatcher(whisper, groq)

	in := audio.Input{Data: []byte("audio-bytes")}

	got, err := d.Run(context.Background(), Whisper, in, nil)
	require.NoError(t, err)
	require.Equal(t, "from whisper", got.Text)

	got, err = d.Run(context.Background(), Groq, in, nil)
	require.NoError(t, err)
	require.Equal(t, "from groq", got.Text)

	require.Equal(t, 1, whisper.calls)
	require.Equal(t, 1, groq.calls)
}

func TestDispatcherRunKeyedReportsFingerprint(t *testing.T) {
	fake := &fakeProvider{id: Whisper, text: "hello"}
	d := newTestDispatcher(fake)

	in := audio.Input{Data: []byte("audio-bytes")}
	params := Params{ParamLanguage: "en"}

	_, fp, err := d.RunKeyed(context.Background(), Whisper, in, params)
	require.NoError(t, err)
	require.Equal(t, Fingerprint(Whisper, &audio.Payload{Data: in.Data}, params), fp)

	// The cache hit reports the same key.
	_, fp2, err := d.RunKeyed(context.Background(), Whisper, in, params)
	require.NoError(t, err)
	require.Equal(t, fp, fp2)
	require.Equal(t, 1, fake.calls)
}

func TestDispatcherDoesNotCacheFailures(t *testing.T) {
	fake := &fakeProvider{id: Whisper, err: fault.FromProvider(fault.KindProvider, string(Whisper), "upstream exploded")}
	d := newTestDispatcher(fake)

	in := audio.Input{Data: []byte("audio-bytes")}

	_, err := d.Run(context.Background(), Whisper, in, nil)
	require.ErrorIs(t, err, fault.ErrProvider)

	// The failure must not have been stored: the provider recovers and the
	// next identical request reaches it.
	fake.err = nil
	fake.text = "recovered"
	got, err := d.Run(context.Background(), Whisper, in, nil)
	require.NoError(t, err)
	require.Equal(t, "recovered", got.Text)
	require.Equal(t, 2, fake.calls)
}

func TestDispatcherRejectsEmptyInput(t *testing.T) {
	fake := &fakeProvider{id: Whisper}
	d := newTestDispatcher(fake)

	_, err := d.Run(context.Background(), Whisper, audio.Input{}, nil)
	require.ErrorIs(t, err, fault.ErrInvalidInput)
	require.Zero(t, fake.calls)
}

func TestDispatcherUnconfiguredProviderNoCall(t *testing.T) {
	d := newTestDispatcher() // empty registry

	_, err := d.Run(context.Background(), Deepgram, audio.Input{Data: []byte("x")}, nil)
	require.ErrorIs(t, err, fault.ErrConfiguration)
}
