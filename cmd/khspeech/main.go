// Khspeech is a Khmer/English text-to-speech bot daemon. It accepts text
// over Telegram or HTTP, splits it into same-language runs and bounded
// chunks, and replies with synthesized speech audio.
//
// Usage:
//
//	khspeech [flags]
//	khspeech --config /path/to/khspeech.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Chomroeurn/khspeech/internal/config"
	"github.com/Chomroeurn/khspeech/internal/dispatch"
	"github.com/Chomroeurn/khspeech/internal/health"
	"github.com/Chomroeurn/khspeech/internal/pipeline"
	"github.com/Chomroeurn/khspeech/internal/transport"
	httptransport "github.com/Chomroeurn/khspeech/internal/transport/http"
	telegramtransport "github.com/Chomroeurn/khspeech/internal/transport/telegram"
	"github.com/Chomroeurn/khspeech/internal/tts"
	"github.com/Chomroeurn/khspeech/internal/tts/gtranslate"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/khspeech.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("khspeech %s\n", version)
		os.Exit(0)
	}

	// Optional .env file, so TELEGRAM_TOKEN can live next to the binary
	// during development.
	_ = godotenv.Load()

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("khspeech starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Build the text pipeline. Chunk size was validated at config load,
	// but pipeline construction is the authoritative check.
	pipe, err := pipeline.New(pipeline.Config{
		MaxChunkSize: cfg.Speech.MaxChunkSize,
		UseDetector:  cfg.Speech.DetectorEnabled,
	})
	if err != nil {
		slog.Error("invalid pipeline configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("pipeline ready",
		"max_chunk_size", cfg.Speech.MaxChunkSize,
		"detector", cfg.Speech.DetectorEnabled)

	// Initialize the synthesis backend.
	var synthesizer tts.Synthesizer
	switch cfg.Speech.Backend {
	case "gtranslate":
		synthesizer, err = gtranslate.New(cfg.Speech.WorkDir)
		if err != nil {
			slog.Error("failed to initialize gtranslate backend", "error", err)
			os.Exit(1)
		}
		slog.Info("using gtranslate synthesizer")
	default:
		slog.Error("unknown speech backend", "backend", cfg.Speech.Backend)
		os.Exit(1)
	}
	defer synthesizer.Close()

	// Initialize enabled transports.
	var transports []transport.Transport

	if cfg.Transports.Telegram.Enabled {
		tg, err := telegramtransport.New(cfg.Transports.Telegram)
		if err != nil {
			slog.Error("failed to initialize telegram transport", "error", err)
			os.Exit(1)
		}
		transports = append(transports, tg)
	}
	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port))
	}

	if len(transports) == 0 {
		slog.Error("no transports enabled — enable at least one in config")
		os.Exit(1)
	}

	// Create the dispatcher.
	dispatcher := dispatch.New(pipe, synthesizer)

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort, version)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Start all transports.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, dispatcher.Handle); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	// Mark as ready once all transports are started.
	healthServer.SetReady(true)
	slog.Info("khspeech ready",
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")

	// Close all transports gracefully.
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("khspeech stopped")
}
