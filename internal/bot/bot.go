// Package bot runs the command pipeline: receive an update, dispatch by
// command keyword, call at most one external gateway, record the
// interaction, and reply.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wires the chat transport to the command handlers.
type Bot struct {
	api        apiClient
	deps       Deps
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Bot around a connected API client.
func New(log *slog.Logger, api apiClient, deps Deps) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		api:        api,
		deps:       deps,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     log.With(slog.String("service", "bot")),
	}
}

// Run long-polls for updates until ctx is canceled. Updates are handled
// one at a time; handlers never run in parallel with each other.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)
	b.logger.Info("listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			// Drain remaining updates so the library's polling goroutine
			// can finish writing and exit. Without this, the in-flight
			// long-poll keeps the old getUpdates session alive, causing
			// "Conflict: terminated by other getUpdates request" on the
			// next start with the same token.
			for range updates {
			}
			return nil
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("updates channel closed")
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.dispatch(ctx, update.Message)
		}
	}
}

// dispatch routes one inbound message through the handler boundary. Any
// error escaping a handler becomes an inline reply; nothing crashes the
// update loop.
func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	if msg.Contact != nil {
		if err := b.handleContact(ctx, msg); err != nil {
			b.logger.Error("contact handler failed", slog.Int64("chat_id", msg.Chat.ID), slog.Any("error", err))
		}
		return
	}

	command, _ := messageCommand(msg)
	if command == "" {
		return
	}
	b.logger.Info("handling command", slog.String("command", command), slog.Int64("chat_id", msg.Chat.ID))

	if command == "help" {
		b.handleHelp(msg)
		return
	}

	var err error
	switch command {
	case "start":
		err = b.handleStart(ctx, msg)
	case "text":
		err = b.handleText(ctx, msg)
	case "img":
		err = b.handleImg(ctx, msg)
	case "file":
		err = b.handleFile(ctx, msg)
	case "sentiment":
		err = b.handleSentiment(ctx, msg)
	case "websearch":
		err = b.handleWebSearch(ctx, msg)
	default:
		return
	}
	if err != nil {
		b.logger.Error("handler failed", slog.String("command", command), slog.Int64("chat_id", msg.Chat.ID), slog.Any("error", err))
		b.reply(msg.Chat.ID, fmt.Sprintf("⚠️ **An error occurred:** %s", err))
	}

	// Every command except /help gets the command list as a trailer.
	b.reply(msg.Chat.ID, helpText)
}

// reply sends markdown text to a chat, truncated to the reply limit.
func (b *Bot) reply(chatID int64, text string) {
	message := tgbotapi.NewMessage(chatID, truncateReply(text))
	message.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(message); err != nil {
		b.logger.Error("send reply failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

// sendStatus posts a transient "working on it" message and returns a
// cleanup func that deletes it. Callers defer the cleanup so the status
// message disappears on every exit path.
func (b *Bot) sendStatus(chatID int64, text string) func() {
	message := tgbotapi.NewMessage(chatID, text)
	message.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(message)
	if err != nil {
		b.logger.Warn("send status message failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return func() {}
	}
	return func() {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID)); err != nil {
			b.logger.Warn("delete status message failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
	}
}

// messageText returns the raw text of a message, falling back to the
// caption for photo and document messages.
func messageText(msg *tgbotapi.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

// messageCommand parses a "/command args" message. Unlike the library's
// Message.Command, it also reads captions, so commands attached to photo
// and document uploads dispatch too. A "@botname" suffix on the command
// is stripped.
func messageCommand(msg *tgbotapi.Message) (command, args string) {
	source := strings.TrimSpace(messageText(msg))
	if !strings.HasPrefix(source, "/") {
		return "", ""
	}
	token := source[1:]
	if idx := strings.IndexAny(token, " \t\n"); idx >= 0 {
		args = strings.TrimSpace(token[idx+1:])
		token = token[:idx]
	}
	if at := strings.Index(token, "@"); at >= 0 {
		token = token[:at]
	}
	return token, args
}
