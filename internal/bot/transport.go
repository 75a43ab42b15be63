package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tripsplit/tripsplit/internal/metrics"
	"github.com/tripsplit/tripsplit/internal/notify"
)

// Transport delivers notification payloads as Telegram private messages.
// It implements notify.Transport; recipients who never opened a private
// chat with the bot simply fail delivery, which the notifier logs and
// ignores.
type Transport struct {
	api *tgbotapi.BotAPI
}

var _ notify.Transport = (*Transport)(nil)

// NewTransport creates a Transport over an authenticated API client.
func NewTransport(api *tgbotapi.BotAPI) *Transport {
	return &Transport{api: api}
}

// SendToUser renders the payload and sends it to the user's private chat.
func (t *Transport) SendToUser(ctx context.Context, userID int64, p notify.Payload) error {
	msg := tgbotapi.NewMessage(userID, renderPayload(p))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.api.Send(msg); err != nil {
		metrics.NotifyFailures.Inc()
		return fmt.Errorf("send to user %d: %w", userID, err)
	}
	return nil
}

func renderPayload(p notify.Payload) string {
	amount := formatAmount(p.Amount, p.Currency)
	switch p.Kind {
	case notify.KindNewDebt:
		return fmt.Sprintf(
			"🔔 *New debt in \"%s\"*\n\n%s %s\n💰 You owe %s: *%s*\n\nSend /start to see all your debts",
			p.TripName, p.Category, p.Description, p.CounterpartyName, amount,
		)
	case notify.KindExpenseLogged:
		return fmt.Sprintf(
			"✅ *Expense logged in \"%s\"*\n\n%s %s\n💰 You are owed: *%s*\n👥 Debtors: %d",
			p.TripName, p.Category, p.Description, amount, p.DebtorCount,
		)
	case notify.KindDebtSettled:
		return fmt.Sprintf(
			"💰 *Debt repaid!*\n\n👤 %s paid you back:\n%s %s\n💵 Amount: *%s*\n\nTrip: %s",
			p.CounterpartyName, p.Category, p.Description, amount, p.TripName,
		)
	case notify.KindSettledEcho:
		return fmt.Sprintf(
			"✅ *Debt settled*\n\n%s %s\n💰 Amount: *%s*\n👤 Creditor: %s",
			p.Category, p.Description, amount, p.CounterpartyName,
		)
	default:
		return fmt.Sprintf("%s %s: %s", p.Category, p.Description, amount)
	}
}
