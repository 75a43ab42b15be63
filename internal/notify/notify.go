// Package notify decides who gets told about ledger events and with what
// payload. It never renders messages or touches the transport wire format;
// that belongs to the bot layer behind the Transport interface.
package notify

import (
	"context"
	"log/slog"

	"github.com/tripsplit/tripsplit/internal/models"
)

// Kind classifies a notification payload.
type Kind string

const (
	// KindNewDebt tells a debtor about a fresh obligation.
	KindNewDebt Kind = "new_debt"

	// KindExpenseLogged summarizes a created expense for its payer.
	KindExpenseLogged Kind = "expense_logged"

	// KindDebtSettled tells a creditor their debt was repaid.
	KindDebtSettled Kind = "debt_settled"

	// KindSettledEcho confirms the repayment to the debtor.
	KindSettledEcho Kind = "settled_echo"
)

// Payload is one notification to one recipient. CounterpartyName is the
// creditor for debtor-facing kinds and the debtor for creditor-facing ones.
type Payload struct {
	Kind             Kind
	Recipient        int64
	TripName         string
	CounterpartyName string
	Amount           float64
	Currency         string
	Description      string
	Category         string

	// DebtorCount is set on KindExpenseLogged only.
	DebtorCount int
}

// Transport delivers one payload to one user. Implementations render the
// payload however they like; a returned error means this one delivery
// failed and nothing more.
type Transport interface {
	SendToUser(ctx context.Context, userID int64, p Payload) error
}

// SettingsSource is the slice of the ledger store the notifier needs.
type SettingsSource interface {
	GetUserSettings(ctx context.Context, userID int64) (*models.UserSettings, error)
}

// Notifier fans ledger events out to the affected users. Delivery is
// fire-and-forget per recipient: one failed send is logged and never blocks
// the others, and the ledger state it describes is already committed.
type Notifier struct {
	settings  SettingsSource
	transport Transport
}

// New creates a Notifier.
func New(settings SettingsSource, transport Transport) *Notifier {
	return &Notifier{settings: settings, transport: transport}
}

// ExpenseCreated notifies every debtor of their new obligation and sends
// the payer one summary of what they are now owed.
func (n *Notifier) ExpenseCreated(ctx context.Context, trip *models.Trip, group *models.DebtGroup, debts []models.Debt) {
	payerName := trip.ParticipantName(group.PayerID, true)

	var total float64
	for _, debt := range debts {
		total += debt.Amount
		n.deliver(ctx, Payload{
			Kind:             KindNewDebt,
			Recipient:        debt.DebtorID,
			TripName:         trip.Name,
			CounterpartyName: payerName,
			Amount:           debt.Amount,
			Currency:         debt.Currency,
			Description:      group.Description,
			Category:         group.Category,
		})
	}

	n.deliver(ctx, Payload{
		Kind:        KindExpenseLogged,
		Recipient:   group.PayerID,
		TripName:    trip.Name,
		Amount:      total,
		Currency:    group.Currency,
		Description: group.Description,
		Category:    group.Category,
		DebtorCount: len(debts),
	})
}

// DebtSettled notifies the creditor that the debtor paid up, with a
// confirmation echo back to the debtor.
func (n *Notifier) DebtSettled(ctx context.Context, trip *models.Trip, group *models.DebtGroup, debt *models.Debt) {
	n.deliver(ctx, Payload{
		Kind:             KindDebtSettled,
		Recipient:        debt.CreditorID,
		TripName:         trip.Name,
		CounterpartyName: trip.ParticipantName(debt.DebtorID, true),
		Amount:           debt.Amount,
		Currency:         debt.Currency,
		Description:      group.Description,
		Category:         group.Category,
	})
	n.deliver(ctx, Payload{
		Kind:             KindSettledEcho,
		Recipient:        debt.DebtorID,
		TripName:         trip.Name,
		CounterpartyName: trip.ParticipantName(debt.CreditorID, true),
		Amount:           debt.Amount,
		Currency:         debt.Currency,
		Description:      group.Description,
		Category:         group.Category,
	})
}

// deliver sends one payload, honoring the recipient's preference.
// Log-and-continue on every failure path.
func (n *Notifier) deliver(ctx context.Context, p Payload) {
	settings, err := n.settings.GetUserSettings(ctx, p.Recipient)
	if err != nil {
		// Preference unknown: send anyway rather than silently dropping.
		slog.Warn("notification settings lookup failed", "user_id", p.Recipient, "error", err)
	} else if settings.Notifications == models.NotifyOff {
		return
	}

	if err := n.transport.SendToUser(ctx, p.Recipient, p); err != nil {
		slog.Error("notification delivery failed",
			"user_id", p.Recipient,
			"kind", string(p.Kind),
			"error", err,
		)
	}
}
