// Package tts defines the interface for text-to-speech synthesis.
//
// Each chunk produced by the pipeline is synthesized with one independent
// call, using the voice selected by the chunk's language tag.
package tts

import (
	"context"

	"github.com/Chomroeurn/khspeech/internal/language"
)

// Result holds the output of one synthesis call.
type Result struct {
	// Audio is the synthesized audio file.
	Audio []byte

	// ContentType is the MIME type of Audio (e.g. "audio/mpeg").
	ContentType string
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize generates audio for text using the voice for lang.
	// Empty or unsupported text is an error; calls are independent.
	Synthesize(ctx context.Context, text string, lang language.Tag) (*Result, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}
