package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tripsplit/tripsplit/internal/config"
	"github.com/tripsplit/tripsplit/internal/models"
)

func currencyKeyboard(currencies []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, code := range currencies {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(code, "currency_"+code))
		if (i+1)%3 == 0 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "trip_cancel"),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tripNameKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Use chat title", "use_chat_title"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "trip_cancel"),
		),
	)
}

// payerKeyboard offers only the expense's own participants as payer
// candidates, one per row.
func payerKeyboard(trip *models.Trip, participantIDs []int64) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, id := range participantIDs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				trip.ParticipantName(id, true),
				fmt.Sprintf("payer_%d", id),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "expense_cancel"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func categoryKeyboard(categories []config.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, cat := range categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			cat.Emoji+" "+cat.Label, "cat_"+cat.Emoji,
		))
		if (i+1)%2 == 0 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Skip", "cat_skip"),
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "expense_cancel"),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func deleteTripKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, delete everything", "deletetrip_confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "deletetrip_cancel"),
		),
	)
}

func cabinetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 I owe", "dm_debts"),
			tgbotapi.NewInlineKeyboardButtonData("💵 Owed to me", "dm_owed"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧾 History", "dm_history"),
			tgbotapi.NewInlineKeyboardButtonData("🔔 Notifications", "dm_notifications"),
		),
	)
}

// debtsKeyboard lists each owed debt as a button so the debtor can open it
// and mark it paid.
func debtsKeyboard(trip *models.Trip, debts []models.DebtWithContext) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, d := range debts {
		label := fmt.Sprintf("%s %s → %s",
			d.Category, formatAmount(d.Amount, d.Currency), trip.ParticipantName(d.CreditorID, false))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "debt_"+d.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "dm_back"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func debtDetailKeyboard(debtID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I paid this back", "pay_"+debtID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "dm_debts"),
		),
	)
}

func notificationsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 All", "notif_all"),
			tgbotapi.NewInlineKeyboardButtonData("🔕 Off", "notif_off"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "dm_back"),
		),
	)
}

func backKeyboard(target string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", target),
		),
	)
}
