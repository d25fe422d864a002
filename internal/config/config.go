// Package config handles loading and validating the khspeech configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Chomroeurn/khspeech/internal/pipeline"
)

// Config is the root configuration for the khspeech daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Speech     SpeechConfig     `mapstructure:"speech"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

// TelegramConfig configures the Telegram bot transport.
type TelegramConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Token is the bot API token. Supports "${TELEGRAM_TOKEN}" references.
	Token string `mapstructure:"token"`

	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int `mapstructure:"poll_timeout"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// SpeechConfig configures the text pipeline and the synthesis backend.
type SpeechConfig struct {
	// Backend selects the synthesizer ("gtranslate").
	Backend string `mapstructure:"backend"`

	// MaxChunkSize bounds a single synthesis call, in runes. Must be
	// positive; validated at load.
	MaxChunkSize int `mapstructure:"max_chunk_size"`

	// DetectorEnabled toggles the statistical language detector. With it
	// off, classification is script-heuristic only.
	DetectorEnabled bool `mapstructure:"detector_enabled"`

	// WorkDir is where the gtranslate backend stages MP3 files. Empty
	// means a directory under the system temp dir.
	WorkDir string `mapstructure:"work_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./khspeech.yaml, ./configs/khspeech.yaml,
// /etc/khspeech/khspeech.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.health_port", 8080)
	v.SetDefault("transports.telegram.enabled", true)
	v.SetDefault("transports.telegram.token", "${TELEGRAM_TOKEN}")
	v.SetDefault("transports.telegram.poll_timeout", 60)
	v.SetDefault("transports.http.enabled", false)
	v.SetDefault("transports.http.port", 8090)
	v.SetDefault("speech.backend", "gtranslate")
	v.SetDefault("speech.max_chunk_size", pipeline.DefaultMaxChunkSize)
	v.SetDefault("speech.detector_enabled", true)
	v.SetDefault("speech.work_dir", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("khspeech")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/khspeech")
	}

	// Environment variables: KHSPEECH_SERVER_HEALTH_PORT, KHSPEECH_SPEECH_MAX_CHUNK_SIZE, etc.
	v.SetEnvPrefix("KHSPEECH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields.
	cfg.Transports.Telegram.Token = resolveEnvRef(cfg.Transports.Telegram.Token)

	if cfg.Speech.MaxChunkSize <= 0 {
		return nil, fmt.Errorf("speech.max_chunk_size must be positive, got %d", cfg.Speech.MaxChunkSize)
	}

	return &cfg, nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
		return ""
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
