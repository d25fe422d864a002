package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chomroeurn/khspeech/internal/language"
	"github.com/Chomroeurn/khspeech/internal/message"
	"github.com/Chomroeurn/khspeech/internal/pipeline"
	"github.com/Chomroeurn/khspeech/internal/tts"
)

// fakeSynth implements tts.Synthesizer with a pluggable function.
type fakeSynth struct {
	fn func(text string, lang language.Tag) (*tts.Result, error)
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, lang language.Tag) (*tts.Result, error) {
	return f.fn(text, lang)
}

func (f *fakeSynth) Close() error { return nil }

func echoSynth() *fakeSynth {
	return &fakeSynth{fn: func(text string, lang language.Tag) (*tts.Result, error) {
		return &tts.Result{Audio: []byte(text), ContentType: "audio/mpeg"}, nil
	}}
}

func newDispatcher(t *testing.T, maxChunkSize int, synth tts.Synthesizer) *Dispatcher {
	t.Helper()
	p, err := pipeline.New(pipeline.Config{MaxChunkSize: maxChunkSize})
	require.NoError(t, err)
	return New(p, synth)
}

func newRequest(text string) *message.Request {
	return &message.Request{
		ID:        "0123456789abcdef",
		Source:    "tester",
		Text:      text,
		Timestamp: time.Now(),
	}
}

func TestHandle_SynthesizesChunksInOrder(t *testing.T) {
	d := newDispatcher(t, 8, echoSynth())

	result, err := d.Handle(context.Background(), newRequest("One. Two. Three."))
	require.NoError(t, err)
	require.Empty(t, result.Error)
	require.Len(t, result.Parts, 3)

	wantTexts := []string{"One.", "Two.", "Three."}
	for i, part := range result.Parts {
		assert.Equal(t, i, part.Index)
		assert.Equal(t, 3, part.Total)
		assert.Equal(t, wantTexts[i], part.Text)
		assert.Equal(t, []byte(wantTexts[i]), part.Audio)
		assert.Equal(t, "audio/mpeg", part.ContentType)
	}
}

func TestHandle_AudioIDsArePerRequest(t *testing.T) {
	d := newDispatcher(t, 8, echoSynth())

	result, err := d.Handle(context.Background(), newRequest("One. Two. Three."))
	require.NoError(t, err)
	require.Len(t, result.Parts, 3)

	assert.Equal(t, "01234567-01", result.Parts[0].AudioID)
	assert.Equal(t, "01234567-02", result.Parts[1].AudioID)
	assert.Equal(t, "01234567-03", result.Parts[2].AudioID)
}

func TestHandle_MixedLanguageVoices(t *testing.T) {
	var langs []language.Tag
	synth := &fakeSynth{fn: func(text string, lang language.Tag) (*tts.Result, error) {
		langs = append(langs, lang)
		return &tts.Result{Audio: []byte{1}, ContentType: "audio/mpeg"}, nil
	}}
	d := newDispatcher(t, 3000, synth)

	result, err := d.Handle(context.Background(), newRequest("Hello សួស្តី how are you?"))
	require.NoError(t, err)
	require.Empty(t, result.Error)
	assert.Equal(t, []language.Tag{language.TagOther, language.TagKhmer, language.TagOther}, langs)
}

func TestHandle_EmptyText(t *testing.T) {
	d := newDispatcher(t, 3000, echoSynth())

	result, err := d.Handle(context.Background(), newRequest("   "))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Parts)
}

func TestHandle_SynthesisFailureAbortsRequest(t *testing.T) {
	calls := 0
	synth := &fakeSynth{fn: func(text string, lang language.Tag) (*tts.Result, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("endpoint rejected text")
		}
		return &tts.Result{Audio: []byte{1}, ContentType: "audio/mpeg"}, nil
	}}
	d := newDispatcher(t, 8, synth)

	result, err := d.Handle(context.Background(), newRequest("One. Two. Three."))
	require.NoError(t, err)
	assert.Contains(t, result.Error, "part 2/3")
	assert.Equal(t, 2, calls, "no further synthesis after a failure")
}

func TestHandle_ResultCarriesRequestID(t *testing.T) {
	d := newDispatcher(t, 3000, echoSynth())
	result, err := d.Handle(context.Background(), newRequest("Hello."))
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", result.RequestID)
}
