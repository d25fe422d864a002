// Package gtranslate implements the TTS Synthesizer against the Google
// Translate speech endpoint via htgo-tts.
//
// The endpoint is the same one the gTTS tooling uses: free, no API key,
// with a hard per-request length limit - which is why the pipeline bounds
// chunk sizes before synthesis ever happens. The library writes MP3 files
// to a working directory; this package reads the bytes back and removes
// the file, so nothing persists between calls.
package gtranslate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	htgotts "github.com/hegedustibor/htgo-tts"

	"github.com/Chomroeurn/khspeech/internal/language"
	"github.com/Chomroeurn/khspeech/internal/tts"
	"github.com/google/uuid"
)

// voices maps language tags to Google Translate voice codes.
var voices = map[language.Tag]string{
	language.TagKhmer: "km",
	language.TagOther: "en",
}

// badFileSize is the exact size of the MP3 the endpoint returns when it
// rejects the input text. Detection trick borrowed from the htgo-tts
// community: a valid synthesis is never this length.
const badFileSize = 1685

// Synthesizer implements tts.Synthesizer using the Google Translate endpoint.
type Synthesizer struct {
	workDir string
}

// New creates a Synthesizer that stages MP3 files under workDir. An empty
// workDir falls back to a directory under the system temp dir.
func New(workDir string) (*Synthesizer, error) {
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "khspeech")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating tts work dir: %w", err)
	}
	return &Synthesizer{workDir: workDir}, nil
}

// Synthesize fetches MP3 audio for text in the voice selected by lang.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, lang language.Tag) (*tts.Result, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	voice, ok := voices[lang]
	if !ok {
		voice = voices[language.TagOther]
	}

	slog.Debug("gtranslate synthesize", "voice", voice, "text_length", len(text))

	speech := htgotts.Speech{Folder: s.workDir, Language: voice}
	path, err := speech.CreateSpeechFile(text, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("fetching speech: %w", err)
	}
	defer os.Remove(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading speech file: %w", err)
	}
	if info.Size() == badFileSize {
		return nil, fmt.Errorf("endpoint rejected text (%d runes, voice %q)", len([]rune(text)), voice)
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading speech file: %w", err)
	}

	return &tts.Result{
		Audio:       audio,
		ContentType: "audio/mpeg",
	}, nil
}

// Close removes the staging directory.
func (s *Synthesizer) Close() error {
	return os.RemoveAll(s.workDir)
}
