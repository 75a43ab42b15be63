// Package calculator holds the pure ledger math: expense fan-out and
// summary aggregation. It has no storage or transport dependencies so the
// division and accumulation rules can be tested in isolation.
package calculator

// Share is one debtor's computed obligation from a shared expense.
type Share struct {
	DebtorID int64
	Amount   float64
}

// PerPersonShare returns the equal share of a total under the
// divide-by-all-participants convention. This is the single place the
// division rule lives: the amount is split across the FULL apportionment
// set, payer included, and the payer's own share is absorbed rather than
// tracked as a debt to themselves.
func PerPersonShare(total float64, participantCount int) float64 {
	return total / float64(participantCount)
}

// FanOut computes one Share per participant other than the payer. The sum
// of the returned shares equals total minus the payer's own share, within
// floating-point epsilon.
//
// Participants are assumed distinct and to include the payer; the caller
// validates that before fanning out.
func FanOut(total float64, payerID int64, participantIDs []int64) []Share {
	perPerson := PerPersonShare(total, len(participantIDs))
	shares := make([]Share, 0, len(participantIDs)-1)
	for _, id := range participantIDs {
		if id == payerID {
			continue
		}
		shares = append(shares, Share{DebtorID: id, Amount: perPerson})
	}
	return shares
}
