package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/tripsplit/tripsplit/internal/calculator"
	"github.com/tripsplit/tripsplit/internal/models"
)

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// formatSummary renders the trip's unpaid-debt summary. Names are untagged
// so the summary never pings the whole group.
func formatSummary(trip *models.Trip, lines []calculator.SummaryLine) string {
	updated := time.Now().Format("15:04")
	if len(lines) == 0 {
		return fmt.Sprintf("📌 *Debt summary — %s*\n\n✅ All debts settled!\n\nUpdated: %s", trip.Name, updated)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📌 *Debt summary — %s*\n\n", trip.Name)
	for _, line := range lines {
		fmt.Fprintf(&b, "%s → %s: *%s*\n",
			trip.ParticipantName(line.DebtorID, false),
			trip.ParticipantName(line.CreditorID, false),
			formatAmount(line.Total, line.Currency),
		)
	}
	fmt.Fprintf(&b, "\nUpdated: %s", updated)
	return b.String()
}

// formatMyDebts renders what the user owes, creditor handles tagged so
// they are one tap away in a private chat.
func formatMyDebts(trip *models.Trip, debts []models.DebtWithContext) string {
	if len(debts) == 0 {
		return "✅ You owe nothing!"
	}

	var b strings.Builder
	b.WriteString("💰 *You owe:*\n\n")
	totals := make(map[string]float64)
	var order []string
	for _, d := range debts {
		fmt.Fprintf(&b, "%s *%s*\nOwed to %s: *%s*\n\n",
			d.Category, d.Description,
			trip.ParticipantName(d.CreditorID, true),
			formatAmount(d.Amount, d.Currency),
		)
		if _, seen := totals[d.Currency]; !seen {
			order = append(order, d.Currency)
		}
		totals[d.Currency] += d.Amount
	}
	b.WriteString("📊 Total: ")
	b.WriteString(formatTotals(totals, order))
	return b.String()
}

// formatOwedToMe renders what others owe the user, grouped per debtor.
func formatOwedToMe(trip *models.Trip, debts []models.DebtWithContext) string {
	if len(debts) == 0 {
		return "✅ Nobody owes you anything!"
	}

	byDebtor := make(map[int64][]models.DebtWithContext)
	var debtorOrder []int64
	for _, d := range debts {
		if _, seen := byDebtor[d.DebtorID]; !seen {
			debtorOrder = append(debtorOrder, d.DebtorID)
		}
		byDebtor[d.DebtorID] = append(byDebtor[d.DebtorID], d)
	}

	var b strings.Builder
	b.WriteString("💵 *Owed to you:*\n\n")
	totals := make(map[string]float64)
	var currencyOrder []string
	for _, debtorID := range debtorOrder {
		subtotal := make(map[string]float64)
		var subOrder []string
		for _, d := range byDebtor[debtorID] {
			if _, seen := subtotal[d.Currency]; !seen {
				subOrder = append(subOrder, d.Currency)
			}
			subtotal[d.Currency] += d.Amount
			if _, seen := totals[d.Currency]; !seen {
				currencyOrder = append(currencyOrder, d.Currency)
			}
			totals[d.Currency] += d.Amount
		}
		fmt.Fprintf(&b, "*%s:* %s\n", trip.ParticipantName(debtorID, true), formatTotals(subtotal, subOrder))
		for _, d := range byDebtor[debtorID] {
			fmt.Fprintf(&b, "  %s %s\n", d.Category, d.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("📊 Total: ")
	b.WriteString(formatTotals(totals, currencyOrder))
	return b.String()
}

// formatHistory renders recent expense events newest first.
func formatHistory(trip *models.Trip, groups []models.DebtGroup) string {
	if len(groups) == 0 {
		return "🧾 *Expense history*\n\nNothing logged yet."
	}

	var b strings.Builder
	b.WriteString("🧾 *Expense history*\n\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "%s *%s* — %s\n   Paid by %s, %s\n\n",
			g.Category,
			formatAmount(g.Total, g.Currency),
			g.Description,
			trip.ParticipantName(g.PayerID, false),
			time.Unix(g.CreatedAt, 0).Format("02.01 15:04"),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatParticipants(trip *models.Trip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧑‍🤝‍🧑 *Participants* (%d):\n\n", len(trip.Participants))
	for _, p := range trip.Participants {
		fmt.Fprintf(&b, "• %s", p.DisplayName)
		if p.Handle != "" {
			fmt.Fprintf(&b, " (@%s)", p.Handle)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatTotals renders per-currency totals in first-seen order.
func formatTotals(totals map[string]float64, order []string) string {
	parts := make([]string, 0, len(order))
	for _, currency := range order {
		parts = append(parts, fmt.Sprintf("*%s*", formatAmount(totals[currency], currency)))
	}
	return strings.Join(parts, " + ")
}
