// Package transport defines the interface for pluggable request transports.
//
// Each transport (Telegram, HTTP) implements this interface and hands
// incoming requests to the dispatcher. The dispatcher doesn't care how
// requests arrive or how audio gets delivered - it only works with the
// Transport contract, and each transport delivers the result back to its
// own sender.
package transport

import (
	"context"

	"github.com/Chomroeurn/khspeech/internal/message"
)

// Handler is a function that processes an incoming request and returns the
// synthesized parts. The dispatcher provides this handler to each transport.
type Handler func(ctx context.Context, req *message.Request) (*message.SpeechResult, error)

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g. "telegram", "http").
	Name() string

	// Listen starts accepting incoming requests and dispatches them to the
	// handler. It blocks until the context is cancelled.
	Listen(ctx context.Context, handler Handler) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
