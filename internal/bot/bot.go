// Package bot is the Telegram surface over the ledger services: command
// routing, inline keyboards, conversation state and message rendering.
// Nothing in here owns ledger semantics; every mutation goes through the
// services.
package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tripsplit/tripsplit/internal/config"
	"github.com/tripsplit/tripsplit/internal/metrics"
	"github.com/tripsplit/tripsplit/internal/notify"
	"github.com/tripsplit/tripsplit/internal/service"
)

// conversationTTL bounds how long a half-finished flow (trip creation,
// expense entry) survives without input.
const conversationTTL = 10 * time.Minute

// Bot wires the Telegram API to the ledger services.
type Bot struct {
	api      *tgbotapi.BotAPI
	trips    *service.TripService
	debts    *service.DebtService
	notifier *notify.Notifier
	cfg      config.Config
	conv     *conversations
}

// New creates the bot, authenticates against the Telegram API and wires
// the notification fan-out over it.
func New(cfg config.Config, trips *service.TripService, debts *service.DebtService, settings notify.SettingsSource) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		trips:    trips,
		debts:    debts,
		notifier: notify.New(settings, NewTransport(api)),
		cfg:      cfg,
		conv:     newConversations(conversationTTL),
	}, nil
}

// Username returns the authenticated bot's username.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run long-polls for updates until ctx is canceled. Each update is handled
// in its own goroutine: every user action is an independent short-lived
// task, and a slow store call on one must not stall the poll loop.
func (b *Bot) Run(ctx context.Context) {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30

	updates := b.api.GetUpdatesChan(updateCfg)
	slog.Info("Bot polling started", "username", b.Username())

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.Info("Bot polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches one update with logging and instrumentation
// around it.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()

	var (
		kind string
		err  error
	)
	switch {
	case update.CallbackQuery != nil:
		kind = "callback"
		err = b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		kind = "command"
		err = b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		kind = "text"
		err = b.handleText(ctx, update.Message)
	default:
		return
	}

	metrics.UpdatesHandled.WithLabelValues(kind).Inc()
	metrics.UpdateDuration.Observe(time.Since(start).Seconds())

	duration := time.Since(start).Milliseconds()
	if err != nil {
		metrics.HandlerErrors.Inc()
		slog.Warn("update failed",
			"type", kind,
			"user_id", updateUserID(update),
			"duration_ms", duration,
			"error", err,
		)
		return
	}
	slog.Debug("update ok", "type", kind, "user_id", updateUserID(update), "duration_ms", duration)
}

func updateUserID(update tgbotapi.Update) int64 {
	if from := update.SentFrom(); from != nil {
		return from.ID
	}
	return 0
}

// reply sends plain Markdown text to a chat, log-and-continue on failure.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("send failed", "chat_id", chatID, "error", err)
	}
}

// replyWithKeyboard sends Markdown text with an inline keyboard attached.
func (b *Bot) replyWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("send failed", "chat_id", chatID, "error", err)
	}
}

// edit rewrites a message in place, used by callback flows.
func (b *Bot) edit(chatID int64, messageID int, text string) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("edit failed", "chat_id", chatID, "error", err)
	}
}

// editWithKeyboard rewrites a message and its keyboard in place.
func (b *Bot) editWithKeyboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("edit failed", "chat_id", chatID, "error", err)
	}
}

// replyEphemeral sends a transient notice and removes it after the delay,
// keeping the group chat free of stale hints.
func (b *Bot) replyEphemeral(chatID int64, text string, delay time.Duration) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(msg)
	if err != nil {
		slog.Error("send failed", "chat_id", chatID, "error", err)
		return
	}
	b.deleteLater(chatID, sent.MessageID, delay)
}

// deleteLater removes a bot message after the delay. Fire-and-forget: the
// timer goroutine never touches the ledger path.
func (b *Bot) deleteLater(chatID int64, messageID int, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
			slog.Debug("delayed delete failed", "chat_id", chatID, "message_id", messageID, "error", err)
		}
	})
}
