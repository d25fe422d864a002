// Package pipeline expands raw user text into ordered, language-tagged,
// size-bounded chunks ready for synthesis.
//
// The expansion is a pure transform: split the text into same-language
// runs, normalize each run for spoken delivery, then chunk each run at
// sentence and clause boundaries. It holds no mutable state, so one
// Pipeline may serve concurrent requests.
package pipeline

import (
	"fmt"

	"github.com/Chomroeurn/khspeech/internal/language"
	"github.com/Chomroeurn/khspeech/internal/message"
	"github.com/Chomroeurn/khspeech/internal/segment"
)

// DefaultMaxChunkSize bounds a single synthesis call, in runes.
const DefaultMaxChunkSize = 3000

// Config holds pipeline settings.
type Config struct {
	// MaxChunkSize is the maximum chunk length in runes. Must be positive.
	MaxChunkSize int

	// UseDetector enables the statistical language detector as a
	// refinement over the script heuristic.
	UseDetector bool
}

// Pipeline turns request text into chunks.
type Pipeline struct {
	classifier   *language.Classifier
	maxChunkSize int
}

// New creates a Pipeline. A non-positive MaxChunkSize is a configuration
// error and is rejected here rather than tolerated downstream.
func New(cfg Config) (*Pipeline, error) {
	if cfg.MaxChunkSize <= 0 {
		return nil, fmt.Errorf("max chunk size must be positive, got %d", cfg.MaxChunkSize)
	}
	return &Pipeline{
		classifier:   language.NewClassifier(cfg.UseDetector),
		maxChunkSize: cfg.MaxChunkSize,
	}, nil
}

// MaxChunkSize returns the configured chunk bound in runes.
func (p *Pipeline) MaxChunkSize() int { return p.maxChunkSize }

// Expand converts raw text into an ordered list of language-tagged chunks.
// Index and Total are set across the whole request so delivery can caption
// parts without any shared counter. Empty and whitespace-only input yield
// a nil slice.
func (p *Pipeline) Expand(text string) []message.Chunk {
	var chunks []message.Chunk
	for _, span := range p.classifier.Split(text, p.maxChunkSize) {
		normalized := segment.Normalize(span.Text, span.Lang)
		for _, piece := range segment.Chunk(normalized, p.maxChunkSize) {
			chunks = append(chunks, message.Chunk{
				Text:     piece,
				Language: span.Lang,
			})
		}
	}
	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = len(chunks)
	}
	return chunks
}
