package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "khspeech.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HealthPort)
	assert.True(t, cfg.Transports.Telegram.Enabled)
	assert.False(t, cfg.Transports.HTTP.Enabled)
	assert.Equal(t, "gtranslate", cfg.Speech.Backend)
	assert.Equal(t, 3000, cfg.Speech.MaxChunkSize)
	assert.True(t, cfg.Speech.DetectorEnabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
speech:
  max_chunk_size: 500
  detector_enabled: false
transports:
  telegram:
    enabled: false
  http:
    enabled: true
    port: 9999
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Speech.MaxChunkSize)
	assert.False(t, cfg.Speech.DetectorEnabled)
	assert.False(t, cfg.Transports.Telegram.Enabled)
	assert.True(t, cfg.Transports.HTTP.Enabled)
	assert.Equal(t, 9999, cfg.Transports.HTTP.Port)
}

func TestLoad_RejectsInvalidChunkSize(t *testing.T) {
	for _, body := range []string{
		"speech:\n  max_chunk_size: 0\n",
		"speech:\n  max_chunk_size: -100\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, "config: %q", body)
	}
}

func TestLoad_ResolvesTokenEnvRef(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "abc123")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.Transports.Telegram.Token)
}

func TestLoad_UnresolvedTokenIsEmpty(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Transports.Telegram.Token)
}

func TestResolveEnvRef(t *testing.T) {
	t.Setenv("KHSPEECH_TEST_VAR", "value")

	assert.Equal(t, "value", resolveEnvRef("${KHSPEECH_TEST_VAR}"))
	assert.Equal(t, "literal", resolveEnvRef("literal"))
	assert.Equal(t, "", resolveEnvRef("${KHSPEECH_TEST_UNSET_VAR}"))
}
