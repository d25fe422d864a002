// Package http implements the HTTP transport for khspeech.
//
// This transport exposes a REST endpoint that accepts text and returns the
// synthesized audio parts as JSON. It is meant for services and scripts
// that want programmatic TTS without going through Telegram.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Chomroeurn/khspeech/internal/message"
	"github.com/Chomroeurn/khspeech/internal/transport"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port   int
	server *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Listen starts the HTTP server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	mux := http.NewServeMux()

	// POST /speak - accepts text, returns synthesized audio parts.
	mux.HandleFunc("POST /speak", func(w http.ResponseWriter, r *http.Request) {
		t.handleSpeak(w, r, handler)
	})

	// Swagger UI - serves the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// speakRequest is the POST /speak request body.
type speakRequest struct {
	// Text is the text to synthesize.
	Text string `json:"text"`

	// Source optionally identifies the caller for logging.
	Source string `json:"source,omitempty"`
}

// handleSpeak processes a POST /speak request.
//
// @Summary     Synthesize speech from text
// @Description Accepts JSON with the text to speak. The text is split into
// @Description same-language runs, normalized, chunked at sentence boundaries,
// @Description and each chunk is synthesized independently. Audio bytes are
// @Description base64-encoded in the response parts.
// @Tags        speak
// @Accept      json
// @Produce     json
// @Param       request  body      speakRequest  true  "Text to synthesize"
// @Success     200  {object}  message.SpeechResult  "Synthesized audio parts"
// @Failure     400  {string}  string  "Invalid request body"
// @Failure     422  {object}  message.SpeechResult  "Text could not be converted"
// @Failure     500  {string}  string  "Internal processing error"
// @Router      /speak [post]
func (t *Transport) handleSpeak(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	var body speakRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := body.Source
	if source == "" {
		source = clientAddr(r)
	}

	req := &message.Request{
		ID:        uuid.NewString(),
		Source:    source,
		Text:      body.Text,
		Timestamp: time.Now(),
	}

	result, err := handler(r.Context(), req)
	if err != nil {
		slog.Error("dispatch failed", "request_id", req.ID, "error", err)
		http.Error(w, "dispatch error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Error != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	_ = json.NewEncoder(w).Encode(result)
}

// clientAddr strips the port from the remote address.
func clientAddr(r *http.Request) string {
	if i := strings.LastIndex(r.RemoteAddr, ":"); i > 0 {
		return r.RemoteAddr[:i]
	}
	return r.RemoteAddr
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}
