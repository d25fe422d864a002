// Package dispatch implements the core request processing engine.
//
// The dispatcher receives requests from transports, expands the text
// through the pipeline (language runs → normalization → chunking), then
// synthesizes each chunk in order. The transport that received the request
// delivers the resulting parts back to the sender.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Chomroeurn/khspeech/internal/message"
	"github.com/Chomroeurn/khspeech/internal/pipeline"
	"github.com/Chomroeurn/khspeech/internal/tts"
)

// Dispatcher is the central request processing engine.
type Dispatcher struct {
	pipeline    *pipeline.Pipeline
	synthesizer tts.Synthesizer
}

// New creates a Dispatcher with the given pipeline and synthesizer.
func New(p *pipeline.Pipeline, synthesizer tts.Synthesizer) *Dispatcher {
	return &Dispatcher{
		pipeline:    p,
		synthesizer: synthesizer,
	}
}

// Handle processes a single request end to end. This function is passed as
// the transport.Handler to each transport.
//
// The returned result carries parts in original text order. Synthesis
// errors abort the request with result.Error set; there is no retry here,
// a failed chunk fails the whole request and the sender is told so.
func (d *Dispatcher) Handle(ctx context.Context, req *message.Request) (*message.SpeechResult, error) {
	start := time.Now()
	logger := slog.With("request_id", req.ID, "source", req.Source)
	logger.Info("dispatch started", "text_length", len(req.Text))

	result := &message.SpeechResult{RequestID: req.ID}

	chunks := d.pipeline.Expand(req.Text)
	if len(chunks) == 0 {
		result.Error = "no speakable text in request"
		logger.Warn("request expanded to zero chunks")
		return result, nil
	}
	logger.Info("expansion complete", "chunks", len(chunks))

	for _, chunk := range chunks {
		synthResult, err := d.synthesizer.Synthesize(ctx, chunk.Text, chunk.Language)
		if err != nil {
			result.Error = fmt.Sprintf("synthesis failed on part %d/%d: %v", chunk.Index+1, chunk.Total, err)
			logger.Error("synthesis failed", "part", chunk.Index+1, "language", chunk.Language, "error", err)
			return result, nil
		}

		result.Parts = append(result.Parts, message.SpeechPart{
			Chunk:       chunk,
			AudioID:     audioID(req.ID, chunk.Index),
			Audio:       synthResult.Audio,
			ContentType: synthResult.ContentType,
		})
		logger.Debug("chunk synthesized",
			"part", chunk.Index+1, "total", chunk.Total,
			"language", chunk.Language, "audio_bytes", len(synthResult.Audio))
	}

	logger.Info("dispatch complete", "parts", len(result.Parts), "duration", time.Since(start))
	return result, nil
}

// audioID derives a per-request part identifier from the request UUID and
// the chunk's sequence index. Sequence numbers are one-based for humans.
func audioID(requestID string, index int) string {
	short := requestID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%02d", short, index+1)
}
