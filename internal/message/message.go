// Package message defines the core data types flowing through the khspeech pipeline.
package message

import (
	"time"

	"github.com/Chomroeurn/khspeech/internal/language"
)

// Request represents one user submission from any transport. It exists only
// for the duration of processing that submission; nothing is persisted
// across requests.
type Request struct {
	// ID is a unique identifier for this request (UUID).
	ID string `json:"id"`

	// Source identifies the sender (e.g. a Telegram username or an HTTP
	// client address).
	Source string `json:"source"`

	// ChatID is the Telegram chat the request came from. Zero for
	// non-Telegram transports.
	ChatID int64 `json:"chat_id,omitempty"`

	// Text is the raw text to be spoken.
	Text string `json:"text"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`
}

// Chunk is one bounded-length piece of a request's text, ready for a single
// synthesis call. Chunks preserve the order of the original text.
type Chunk struct {
	// Text is the normalized chunk content.
	Text string `json:"text"`

	// Language selects the voice for this chunk.
	Language language.Tag `json:"language"`

	// Index is the zero-based position of this chunk within its request.
	Index int `json:"index"`

	// Total is the number of chunks the request expanded into.
	Total int `json:"total"`
}

// SpeechPart is one synthesized chunk ready for delivery.
type SpeechPart struct {
	Chunk

	// AudioID is a short per-request identifier used as the file name stem
	// and shown in captions (e.g. "f3a1c2d4-01").
	AudioID string `json:"audio_id"`

	// Audio is the synthesized audio. Marshals as base64 in JSON.
	Audio []byte `json:"audio,omitempty"`

	// ContentType is the MIME type of Audio (e.g. "audio/mpeg").
	ContentType string `json:"content_type,omitempty"`
}

// SpeechResult is the outcome of processing one request.
type SpeechResult struct {
	// RequestID is the originating request's ID.
	RequestID string `json:"request_id"`

	// Parts holds the synthesized chunks in original text order.
	Parts []SpeechPart `json:"parts"`

	// Error is set if processing failed at any stage.
	Error string `json:"error,omitempty"`
}
