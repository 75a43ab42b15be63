package calculator

// Obligation is one unpaid debt with the minimal information needed for
// summary aggregation.
type Obligation struct {
	DebtorID   int64
	CreditorID int64
	Amount     float64
	Currency   string
}

// SummaryLine is one aggregated row of the summary: everything one debtor
// owes one creditor in one currency.
type SummaryLine struct {
	DebtorID   int64
	CreditorID int64
	Total      float64
	Currency   string
}

type pairKey struct {
	debtorID   int64
	creditorID int64
	currency   string
}

// Summarize groups unpaid obligations by (debtor, creditor, currency) and
// sums their amounts. It is plain accumulation: opposing pairs are NOT
// netted, so "A owes B 10" and "B owes A 5" stay as two lines. Lines come
// back in first-seen order, which makes the summary stable across reads of
// the same ledger.
func Summarize(obligations []Obligation) []SummaryLine {
	totals := make(map[pairKey]float64)
	var order []pairKey

	for _, o := range obligations {
		key := pairKey{o.DebtorID, o.CreditorID, o.Currency}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += o.Amount
	}

	lines := make([]SummaryLine, 0, len(order))
	for _, key := range order {
		lines = append(lines, SummaryLine{
			DebtorID:   key.debtorID,
			CreditorID: key.creditorID,
			Total:      totals[key],
			Currency:   key.currency,
		})
	}
	return lines
}
