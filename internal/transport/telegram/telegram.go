// Package telegram implements the Telegram bot transport for khspeech.
//
// The bot long-polls the Bot API for updates, accepts plain text messages
// and the /speak command, and replies with one audio file per synthesized
// chunk. Each part is captioned with a language flag and its position in
// the sequence so multi-part replies stay readable in the chat.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/Chomroeurn/khspeech/internal/config"
	"github.com/Chomroeurn/khspeech/internal/language"
	"github.com/Chomroeurn/khspeech/internal/message"
	"github.com/Chomroeurn/khspeech/internal/transport"
)

const welcomeText = `សួស្តី! Hello!

I'm a Khmer-English text-to-speech bot.

• Send any text and I'll reply with audio
• /speak <text> - convert specific text
• /help - detailed help

Mixed Khmer and English text is split and spoken with the right voice.
Try: Hello សួស្តី how are you?`

const helpText = `Khmer-English TTS bot

• Pure Khmer: សួស្ដីអ្នកសុខសប្បាយទេ
• Pure English: Hello, how are you today?
• Mixed: Hello សួស្តី nice to meet you

Long texts are split at sentence boundaries and sent as numbered parts.
Use proper punctuation - it becomes natural pauses in the audio.`

const speakUsageText = `Please provide text after /speak

Examples:
• /speak សួស្ដីអ្នកមានសុខភាពល្អទេ
• /speak Hello, how are you?
• /speak Hello សួស្តី mixed language`

const processingText = "Processing your text, please wait..."

const errorText = "Sorry, an error occurred while creating the speech. Please try again."

// Transport implements transport.Transport over the Telegram Bot API.
type Transport struct {
	bot         *tgbotapi.BotAPI
	pollTimeout int
}

// New creates a Telegram transport and authenticates against the Bot API.
func New(cfg config.TelegramConfig) (*Transport, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is not set")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("authenticating telegram bot: %w", err)
	}

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 60
	}

	slog.Info("telegram bot authenticated", "username", bot.Self.UserName)
	return &Transport{bot: bot, pollTimeout: pollTimeout}, nil
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "telegram" }

// Listen consumes the bot's update channel and dispatches text messages.
// Each update is handled in its own goroutine; the pipeline behind the
// handler is stateless, so concurrent requests are safe.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.pollTimeout
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go t.handleMessage(ctx, update.Message, handler)
		}
	}
}

// handleMessage routes one inbound message to a command or to speech.
func (t *Transport) handleMessage(ctx context.Context, msg *tgbotapi.Message, handler transport.Handler) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			t.reply(msg.Chat.ID, welcomeText)
		case "speak":
			text := msg.CommandArguments()
			if text == "" {
				t.reply(msg.Chat.ID, speakUsageText)
				return
			}
			t.speak(ctx, msg, text, handler)
		case "help":
			t.reply(msg.Chat.ID, helpText)
		}
		return
	}
	t.speak(ctx, msg, msg.Text, handler)
}

// speak runs one text through the handler and delivers the audio parts.
func (t *Transport) speak(ctx context.Context, msg *tgbotapi.Message, text string, handler transport.Handler) {
	req := &message.Request{
		ID:        uuid.NewString(),
		Source:    senderName(msg),
		ChatID:    msg.Chat.ID,
		Text:      text,
		Timestamp: time.Now(),
	}
	logger := slog.With("request_id", req.ID, "chat_id", msg.Chat.ID)

	// A visible notice while the synthesis calls run, deleted afterwards.
	noticeID := 0
	if notice, err := t.bot.Send(tgbotapi.NewMessage(msg.Chat.ID, processingText)); err != nil {
		logger.Warn("failed to send processing notice", "error", err)
	} else {
		noticeID = notice.MessageID
	}
	defer func() {
		if noticeID != 0 {
			if _, err := t.bot.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, noticeID)); err != nil {
				logger.Debug("failed to delete processing notice", "error", err)
			}
		}
	}()

	result, err := handler(ctx, req)
	if err != nil {
		logger.Error("dispatch failed", "error", err)
		t.reply(msg.Chat.ID, errorText)
		return
	}
	if result.Error != "" {
		logger.Warn("request rejected", "reason", result.Error)
		t.reply(msg.Chat.ID, "The text appears to be empty or could not be converted. Please try different text.")
		return
	}

	for _, part := range result.Parts {
		audio := tgbotapi.NewAudio(msg.Chat.ID, tgbotapi.FileBytes{
			Name:  part.AudioID + ".mp3",
			Bytes: part.Audio,
		})
		audio.Caption = caption(part)
		if _, err := t.bot.Send(audio); err != nil {
			logger.Error("failed to send audio part", "part", part.Index+1, "error", err)
			t.reply(msg.Chat.ID, errorText)
			return
		}
	}
	logger.Info("audio delivered", "parts", len(result.Parts))
}

// caption builds the audio caption: id, language flag, and position when
// the reply has more than one part.
func caption(part message.SpeechPart) string {
	flag := "🇺🇸"
	if part.Language == language.TagKhmer {
		flag = "🇰🇭"
	}
	if part.Total == 1 {
		return fmt.Sprintf("🎧 %s %s", part.AudioID, flag)
	}
	return fmt.Sprintf("🎧 %s %s - Part %d/%d", part.AudioID, flag, part.Index+1, part.Total)
}

// senderName returns a stable, loggable identity for the message sender.
func senderName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return strconv.FormatInt(msg.Chat.ID, 10)
	}
	if msg.From.UserName != "" {
		return msg.From.UserName
	}
	return strconv.FormatInt(msg.From.ID, 10)
}

// reply sends a plain text message, logging delivery failures.
func (t *Transport) reply(chatID int64, text string) {
	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Warn("failed to send reply", "chat_id", chatID, "error", err)
	}
}

// Close stops the update polling loop.
func (t *Transport) Close() error {
	t.bot.StopReceivingUpdates()
	return nil
}
