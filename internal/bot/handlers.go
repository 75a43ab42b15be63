package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tripsplit/tripsplit/internal/metrics"
	"github.com/tripsplit/tripsplit/internal/models"
	"github.com/tripsplit/tripsplit/internal/parse"
	"github.com/tripsplit/tripsplit/internal/service"
)

const helpText = `*TripSplit* tracks shared travel expenses and settles debts.

*Group chat:*
/newtrip — start a trip for this chat
/join — join the trip
/summary — who owes whom
/participants — trip members
/history — logged expenses
/undo — remove the latest expense
/deletetrip — delete the trip and all its debts

Log an expense by starting a message with the amount:
` + "`2000 @alex @kate taxi to the airport`" + `

*Private chat:* send /start for your debts, history and settings.`

// handleCommand routes slash commands.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Chat.IsGroup() || msg.Chat.IsSuperGroup() {
		// Any observed group activity registers the sender.
		b.observeParticipant(ctx, msg)
	}

	switch msg.Command() {
	case "start":
		if msg.Chat.IsPrivate() {
			return b.showCabinet(ctx, msg.From.ID, 0)
		}
		b.reply(msg.Chat.ID, helpText)
		return nil

	case "help":
		b.reply(msg.Chat.ID, helpText)
		return nil

	case "newtrip":
		return b.startTripFlow(ctx, msg)

	case "join":
		return b.joinCommand(ctx, msg)

	case "summary":
		return b.summaryCommand(ctx, msg)

	case "participants":
		return b.participantsCommand(ctx, msg)

	case "history":
		return b.historyCommand(ctx, msg)

	case "undo":
		return b.undoCommand(ctx, msg)

	case "deletetrip":
		return b.deleteTripCommand(ctx, msg)

	case "trips":
		if msg.Chat.IsPrivate() {
			return b.listTrips(ctx, msg.From.ID)
		}
		return nil

	default:
		return nil
	}
}

// handleText routes non-command text: conversation steps, expense lines
// and passive participant accumulation.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Chat.IsPrivate() {
		return b.showCabinet(ctx, msg.From.ID, 0)
	}
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		return nil
	}

	b.observeParticipant(ctx, msg)

	if state := b.conv.get(msg.From.ID); state != nil && state.Stage == stageTripName && state.ChatID == msg.Chat.ID {
		return b.tripNameEntered(msg, strings.TrimSpace(msg.Text))
	}

	// A group message leading with a digit is an expense entry.
	runes := []rune(strings.TrimSpace(msg.Text))
	if len(runes) > 0 && unicode.IsDigit(runes[0]) {
		return b.expenseLineEntered(ctx, msg)
	}
	return nil
}

// observeParticipant registers the sender in the chat's trip, if one
// exists. No trip is not an error: the chat just hasn't run /newtrip.
func (b *Bot) observeParticipant(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}
	if _, err := b.trips.AddOrUpdateParticipant(ctx, msg.Chat.ID, msg.From.ID, msg.From.UserName, msg.From.FirstName); err != nil {
		// Logged inside the service; the user action must not fail on this.
		return
	}
}

// ---- trip creation flow ----

func (b *Bot) startTripFlow(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Chat.IsPrivate() {
		b.reply(msg.Chat.ID, "❌ Trips are created in the group chat: run /newtrip there.")
		return nil
	}

	if _, err := b.trips.Trip(ctx, msg.Chat.ID); err == nil {
		b.reply(msg.Chat.ID, "❌ This chat already has a trip. /deletetrip first if you want a fresh one.")
		return nil
	} else if !errors.Is(err, service.ErrNotFound) {
		return err
	}

	b.conv.set(msg.From.ID, &convState{Stage: stageTripName, ChatID: msg.Chat.ID})
	b.replyWithKeyboard(msg.Chat.ID, "🏝 *New trip*\n\nWhat should it be called?", tripNameKeyboard())
	return nil
}

func (b *Bot) tripNameEntered(msg *tgbotapi.Message, name string) error {
	if name == "" {
		b.reply(msg.Chat.ID, "❌ The trip needs a name. Try again.")
		return nil
	}
	b.conv.set(msg.From.ID, &convState{Stage: stageTripCurrency, ChatID: msg.Chat.ID, TripName: name})
	b.replyWithKeyboard(msg.Chat.ID, fmt.Sprintf("🏝 *%s*\n\nPick the trip currency:", name), currencyKeyboard(b.cfg.Currencies))
	return nil
}

func (b *Bot) currencyChosen(ctx context.Context, cb *tgbotapi.CallbackQuery, code string) error {
	state := b.conv.get(cb.From.ID)
	if state == nil || state.Stage != stageTripCurrency {
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "❌ This trip setup has expired. Run /newtrip again.")
		return nil
	}

	trip, err := b.trips.CreateTrip(ctx, state.ChatID, state.TripName, code, cb.From.ID)
	if err != nil {
		b.conv.clear(cb.From.ID)
		if errors.Is(err, service.ErrInvalidInput) {
			b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "❌ Could not create the trip: "+err.Error())
			return nil
		}
		return err
	}

	// The creator is the first participant.
	if _, err := b.trips.AddOrUpdateParticipant(ctx, trip.ChatID, cb.From.ID, cb.From.UserName, cb.From.FirstName); err != nil {
		return err
	}

	b.conv.clear(cb.From.ID)
	b.edit(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf(
		"✅ Trip *%s* created (%s).\n\nEveryone who writes in this chat joins automatically, or use /join.\nLog expenses like:\n`2000 @alex taxi`",
		trip.Name, trip.Currency,
	))
	return nil
}

// ---- expense flow ----

func (b *Bot) expenseLineEntered(ctx context.Context, msg *tgbotapi.Message) error {
	trip, err := b.trips.Trip(ctx, msg.Chat.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			b.reply(msg.Chat.ID, "❌ No trip in this chat yet. Run /newtrip first.")
			return nil
		}
		return err
	}

	known := make([]parse.Participant, len(trip.Participants))
	for i, p := range trip.Participants {
		known[i] = parse.Participant{ID: p.UserID, Handle: p.Handle, DisplayName: p.DisplayName}
	}

	result, err := parse.ExpenseLine(msg.Text, msg.From.ID, known, trip.Currency, b.cfg.Currencies)
	if err != nil {
		var perr *parse.Error
		if errors.As(err, &perr) {
			b.replyEphemeral(msg.Chat.ID, "❌ "+perr.Hint, time.Minute)
			return nil
		}
		return err
	}

	b.conv.set(msg.From.ID, &convState{
		Stage:  stageExpensePayer,
		ChatID: msg.Chat.ID,
		Expense: &expenseDraft{
			TripID:         trip.ChatID,
			Amount:         result.Amount,
			Currency:       result.Currency,
			ParticipantIDs: result.ParticipantIDs,
			Description:    result.Description,
		},
	})

	text := fmt.Sprintf(
		"✅ Amount: *%s*\n👥 Participants: %d\n📝 Description: %s\n\n💳 Who paid?",
		formatAmount(result.Amount, result.Currency), len(result.ParticipantIDs), result.Description,
	)
	b.replyWithKeyboard(msg.Chat.ID, text, payerKeyboard(trip, result.ParticipantIDs))
	return nil
}

func (b *Bot) payerChosen(ctx context.Context, cb *tgbotapi.CallbackQuery, payerID int64) error {
	state := b.conv.get(cb.From.ID)
	if state == nil || state.Stage != stageExpensePayer || state.Expense == nil {
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "❌ This expense entry has expired. Send it again.")
		return nil
	}

	state.Expense.PayerID = payerID
	state.Stage = stageExpenseCategory
	b.conv.set(cb.From.ID, state)

	b.editWithKeyboard(cb.Message.Chat.ID, cb.Message.MessageID,
		"📁 Pick a category (optional):", categoryKeyboard(b.cfg.Categories))
	return nil
}

func (b *Bot) categoryChosen(ctx context.Context, cb *tgbotapi.CallbackQuery, category string) error {
	state := b.conv.get(cb.From.ID)
	if state == nil || state.Stage != stageExpenseCategory || state.Expense == nil {
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "❌ This expense entry has expired. Send it again.")
		return nil
	}
	draft := state.Expense
	b.conv.clear(cb.From.ID)

	// One atomic engine call with the complete draft.
	group, debts, err := b.debts.CreateSharedExpense(ctx, service.CreateExpenseInput{
		TripID:         draft.TripID,
		Amount:         draft.Amount,
		PayerID:        draft.PayerID,
		ParticipantIDs: draft.ParticipantIDs,
		Description:    draft.Description,
		Category:       category,
		Currency:       draft.Currency,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "❌ "+err.Error())
			return nil
		}
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, "❌ Could not save the expense. Try again.")
		return err
	}
	metrics.ExpensesCreated.Inc()

	trip, err := b.trips.Trip(ctx, draft.TripID)
	if err != nil {
		return err
	}

	perPerson := formatAmount(group.Total/float64(len(group.ParticipantIDs)), group.Currency)
	debtorNames := make([]string, len(debts))
	for i, d := range debts {
		debtorNames[i] = trip.ParticipantName(d.DebtorID, false)
	}

	b.edit(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf(
		"💸 *New debt*\n\n%s %s: *%s*\n💰 Amount: %s\n👤 Paid by: %s\n💳 Per person: %s\n\n👥 Debtors: %s",
		group.Category, b.cfg.CategoryLabel(group.Category), group.Description,
		formatAmount(group.Total, group.Currency),
		trip.ParticipantName(group.PayerID, false),
		perPerson,
		strings.Join(debtorNames, ", "),
	))

	// Refresh the group summary below the announcement.
	summary, err := b.debts.DebtsSummary(ctx, trip.ChatID)
	if err == nil {
		b.reply(trip.ChatID, formatSummary(trip, summary))
	}

	b.notifier.ExpenseCreated(ctx, trip, group, debts)
	return nil
}

// ---- group queries ----

func (b *Bot) tripOrHint(ctx context.Context, chatID int64) (*models.Trip, error) {
	trip, err := b.trips.Trip(ctx, chatID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			b.reply(chatID, "❌ No trip in this chat yet. Run /newtrip first.")
			return nil, nil
		}
		return nil, err
	}
	return trip, nil
}

func (b *Bot) joinCommand(ctx context.Context, msg *tgbotapi.Message) error {
	ok, err := b.trips.AddOrUpdateParticipant(ctx, msg.Chat.ID, msg.From.ID, msg.From.UserName, msg.From.FirstName)
	if err != nil {
		return err
	}
	if !ok {
		b.reply(msg.Chat.ID, "❌ No trip in this chat yet. Run /newtrip first.")
		return nil
	}
	b.replyEphemeral(msg.Chat.ID, fmt.Sprintf("✅ %s is in!", msg.From.FirstName), time.Minute)
	return nil
}

func (b *Bot) summaryCommand(ctx context.Context, msg *tgbotapi.Message) error {
	trip, err := b.tripOrHint(ctx, msg.Chat.ID)
	if trip == nil || err != nil {
		return err
	}
	summary, err := b.debts.DebtsSummary(ctx, trip.ChatID)
	if err != nil {
		return err
	}
	b.reply(msg.Chat.ID, formatSummary(trip, summary))
	return nil
}

func (b *Bot) participantsCommand(ctx context.Context, msg *tgbotapi.Message) error {
	trip, err := b.tripOrHint(ctx, msg.Chat.ID)
	if trip == nil || err != nil {
		return err
	}
	b.reply(msg.Chat.ID, formatParticipants(trip))
	return nil
}

func (b *Bot) historyCommand(ctx context.Context, msg *tgbotapi.Message) error {
	var trip *models.Trip
	var err error
	if msg.Chat.IsPrivate() {
		trip, err = b.trips.ActiveTrip(ctx, msg.From.ID)
		if errors.Is(err, service.ErrNotFound) {
			b.reply(msg.Chat.ID, "❌ No active trip. Join one in a group chat first.")
			return nil
		}
	} else {
		trip, err = b.tripOrHint(ctx, msg.Chat.ID)
	}
	if trip == nil || err != nil {
		return err
	}

	groups, err := b.debts.History(ctx, trip.ChatID, 20)
	if err != nil {
		return err
	}
	b.reply(msg.Chat.ID, formatHistory(trip, groups))
	return nil
}

// undoCommand soft-deletes the trip's most recent expense event. The rows
// stay for audit; summaries and history stop counting them.
func (b *Bot) undoCommand(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Chat.IsPrivate() {
		return nil
	}
	trip, err := b.tripOrHint(ctx, msg.Chat.ID)
	if trip == nil || err != nil {
		return err
	}

	groups, err := b.debts.History(ctx, trip.ChatID, 1)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		b.replyEphemeral(msg.Chat.ID, "❌ Nothing to undo.", time.Minute)
		return nil
	}
	latest := groups[0]

	if err := b.debts.RemoveExpense(ctx, latest.ID); err != nil {
		return err
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("↩️ Removed: %s *%s* — %s",
		latest.Category, latest.Description, formatAmount(latest.Total, latest.Currency)))

	summary, err := b.debts.DebtsSummary(ctx, trip.ChatID)
	if err == nil {
		b.reply(trip.ChatID, formatSummary(trip, summary))
	}
	return nil
}

func (b *Bot) deleteTripCommand(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Chat.IsPrivate() {
		return nil
	}
	trip, err := b.tripOrHint(ctx, msg.Chat.ID)
	if trip == nil || err != nil {
		return err
	}
	b.replyWithKeyboard(msg.Chat.ID, fmt.Sprintf(
		"⚠️ Delete trip *%s* with ALL its expenses and debts? This cannot be undone.", trip.Name,
	), deleteTripKeyboard())
	return nil
}

// ---- private cabinet ----

// showCabinet renders the DM main menu. messageID > 0 edits in place.
func (b *Bot) showCabinet(ctx context.Context, userID int64, messageID int) error {
	trip, err := b.trips.ActiveTrip(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			b.reply(userID, "👋 Hi! Add me to a group chat and run /newtrip to start tracking a trip.")
			return nil
		}
		return err
	}

	text := fmt.Sprintf("🎯 *%s*\n\nYour trip dashboard. Use /trips to switch trips.", trip.Name)
	if messageID > 0 {
		b.editWithKeyboard(userID, messageID, text, cabinetKeyboard())
	} else {
		b.replyWithKeyboard(userID, text, cabinetKeyboard())
	}
	return nil
}

func (b *Bot) showMyDebts(ctx context.Context, userID int64, messageID int) error {
	trip, err := b.trips.ActiveTrip(ctx, userID)
	if err != nil {
		return err
	}
	debts, err := b.debts.MyDebts(ctx, trip.ChatID, userID)
	if err != nil {
		return err
	}
	b.editWithKeyboard(userID, messageID, formatMyDebts(trip, debts), debtsKeyboard(trip, debts))
	return nil
}

func (b *Bot) showOwedToMe(ctx context.Context, userID int64, messageID int) error {
	trip, err := b.trips.ActiveTrip(ctx, userID)
	if err != nil {
		return err
	}
	debts, err := b.debts.DebtsToUser(ctx, trip.ChatID, userID)
	if err != nil {
		return err
	}
	b.editWithKeyboard(userID, messageID, formatOwedToMe(trip, debts), backKeyboard("dm_back"))
	return nil
}

func (b *Bot) showDebtDetail(ctx context.Context, userID int64, messageID int, debtID string) error {
	debt, err := b.debts.Debt(ctx, debtID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			b.edit(userID, messageID, "❌ Debt not found.")
			return nil
		}
		return err
	}
	group, err := b.debts.DebtGroup(ctx, debt.GroupID)
	if err != nil {
		return err
	}
	trip, err := b.trips.Trip(ctx, debt.TripID)
	if err != nil {
		return err
	}

	b.editWithKeyboard(userID, messageID, fmt.Sprintf(
		"%s *%s*\n\n💰 Amount: *%s*\n👤 Owed to: %s\n\nPaid it back?",
		group.Category, group.Description,
		formatAmount(debt.Amount, debt.Currency),
		trip.ParticipantName(debt.CreditorID, true),
	), debtDetailKeyboard(debt.ID))
	return nil
}

func (b *Bot) payDebt(ctx context.Context, cb *tgbotapi.CallbackQuery, debtID string) error {
	userID := cb.From.ID
	debt, alreadyPaid, err := b.debts.MarkDebtPaid(ctx, debtID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			b.edit(userID, cb.Message.MessageID, "❌ Debt not found.")
			return nil
		}
		return err
	}

	group, err := b.debts.DebtGroup(ctx, debt.GroupID)
	if err != nil {
		return err
	}
	trip, err := b.trips.Trip(ctx, debt.TripID)
	if err != nil {
		return err
	}

	b.edit(userID, cb.Message.MessageID, fmt.Sprintf(
		"✅ *Debt settled!*\n\n%s %s\n💰 Amount: %s\n👤 Creditor: %s",
		group.Category, group.Description,
		formatAmount(debt.Amount, debt.Currency),
		trip.ParticipantName(debt.CreditorID, true),
	))

	// A re-stamp means someone already settled this; no second round of
	// notifications or announcements.
	if alreadyPaid {
		return nil
	}
	metrics.DebtsSettled.Inc()

	b.notifier.DebtSettled(ctx, trip, group, debt)

	summary, err := b.debts.DebtsSummary(ctx, trip.ChatID)
	if err == nil {
		b.reply(trip.ChatID, fmt.Sprintf("✅ %s paid back %s\n\n%s",
			trip.ParticipantName(debt.DebtorID, false),
			trip.ParticipantName(debt.CreditorID, false),
			formatSummary(trip, summary),
		))
	}
	return nil
}

func (b *Bot) showNotifications(ctx context.Context, userID int64, messageID int) error {
	settings, err := b.trips.Settings(ctx, userID)
	if err != nil {
		return err
	}
	current := "🔔 all"
	if settings.Notifications == models.NotifyOff {
		current = "🔕 off"
	}
	b.editWithKeyboard(userID, messageID,
		fmt.Sprintf("🔔 *Notifications*\n\nCurrent: %s", current), notificationsKeyboard())
	return nil
}

func (b *Bot) listTrips(ctx context.Context, userID int64) error {
	link, err := b.trips.TripLink(ctx, userID)
	if err != nil {
		return err
	}
	if len(link.TripIDs) == 0 {
		b.reply(userID, "❌ You are not in any trip yet.")
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, tripID := range link.TripIDs {
		trip, err := b.trips.Trip(ctx, tripID)
		if err != nil {
			continue
		}
		label := trip.Name
		if tripID == link.ActiveTripID {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("switch_%d", tripID)),
		))
	}
	b.replyWithKeyboard(userID, "🔄 *Your trips* — tap to switch:", tgbotapi.NewInlineKeyboardMarkup(rows...))
	return nil
}

// ---- callbacks ----

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	// Ack first so the client stops its spinner regardless of outcome.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		return err
	}
	if cb.Message == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	data := cb.Data

	switch {
	case data == "use_chat_title":
		state := b.conv.get(cb.From.ID)
		if state == nil || state.Stage != stageTripName {
			b.edit(chatID, messageID, "❌ This trip setup has expired. Run /newtrip again.")
			return nil
		}
		name := cb.Message.Chat.Title
		b.conv.set(cb.From.ID, &convState{Stage: stageTripCurrency, ChatID: state.ChatID, TripName: name})
		b.editWithKeyboard(chatID, messageID,
			fmt.Sprintf("🏝 *%s*\n\nPick the trip currency:", name), currencyKeyboard(b.cfg.Currencies))
		return nil

	case strings.HasPrefix(data, "currency_"):
		return b.currencyChosen(ctx, cb, strings.TrimPrefix(data, "currency_"))

	case data == "trip_cancel":
		b.conv.clear(cb.From.ID)
		b.edit(chatID, messageID, "❌ Trip creation canceled.")
		return nil

	case strings.HasPrefix(data, "payer_"):
		payerID, err := strconv.ParseInt(strings.TrimPrefix(data, "payer_"), 10, 64)
		if err != nil {
			return err
		}
		return b.payerChosen(ctx, cb, payerID)

	case data == "cat_skip":
		return b.categoryChosen(ctx, cb, b.cfg.DefaultCategory)

	case strings.HasPrefix(data, "cat_"):
		return b.categoryChosen(ctx, cb, strings.TrimPrefix(data, "cat_"))

	case data == "expense_cancel":
		b.conv.clear(cb.From.ID)
		b.edit(chatID, messageID, "❌ Expense entry canceled.")
		return nil

	case data == "deletetrip_confirm":
		deleted, err := b.trips.DeleteTripCompletely(ctx, chatID)
		if err != nil {
			return err
		}
		if deleted {
			b.edit(chatID, messageID, "🗑 Trip deleted, all debts cleared.")
		} else {
			b.edit(chatID, messageID, "❌ There was no trip to delete.")
		}
		return nil

	case data == "deletetrip_cancel":
		b.edit(chatID, messageID, "Deletion canceled.")
		return nil

	case data == "dm_back":
		return b.showCabinet(ctx, cb.From.ID, messageID)

	case data == "dm_debts":
		return b.showMyDebts(ctx, cb.From.ID, messageID)

	case data == "dm_owed":
		return b.showOwedToMe(ctx, cb.From.ID, messageID)

	case data == "dm_history":
		trip, err := b.trips.ActiveTrip(ctx, cb.From.ID)
		if err != nil {
			return err
		}
		groups, err := b.debts.History(ctx, trip.ChatID, 20)
		if err != nil {
			return err
		}
		b.editWithKeyboard(cb.From.ID, messageID, formatHistory(trip, groups), backKeyboard("dm_back"))
		return nil

	case data == "dm_notifications":
		return b.showNotifications(ctx, cb.From.ID, messageID)

	case data == "notif_all":
		if err := b.trips.SetNotifications(ctx, cb.From.ID, models.NotifyAll); err != nil {
			return err
		}
		return b.showNotifications(ctx, cb.From.ID, messageID)

	case data == "notif_off":
		if err := b.trips.SetNotifications(ctx, cb.From.ID, models.NotifyOff); err != nil {
			return err
		}
		return b.showNotifications(ctx, cb.From.ID, messageID)

	case strings.HasPrefix(data, "debt_"):
		return b.showDebtDetail(ctx, cb.From.ID, messageID, strings.TrimPrefix(data, "debt_"))

	case strings.HasPrefix(data, "pay_"):
		return b.payDebt(ctx, cb, strings.TrimPrefix(data, "pay_"))

	case strings.HasPrefix(data, "switch_"):
		tripID, err := strconv.ParseInt(strings.TrimPrefix(data, "switch_"), 10, 64)
		if err != nil {
			return err
		}
		if err := b.trips.SwitchActiveTrip(ctx, cb.From.ID, tripID); err != nil {
			return err
		}
		return b.showCabinet(ctx, cb.From.ID, messageID)

	default:
		return nil
	}
}
