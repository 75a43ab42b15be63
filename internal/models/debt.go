package models

// DebtGroup is one logged shared-expense event, apportioned across a
// participant set that includes the payer.
type DebtGroup struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// TripID is the owning trip (chat id).
	TripID int64

	// Total is the full expense amount.
	Total float64

	// Currency is the currency code for this event. It may differ from the
	// trip's default currency.
	Currency string

	// PayerID is the user who paid the expense.
	PayerID int64

	// ParticipantIDs is the full apportionment set, payer included.
	ParticipantIDs []int64

	// Description is the free-text description of the expense.
	Description string

	// Category is the stored category tag (emoji from the configured set).
	Category string

	// CreatedAt is the Unix timestamp when the event was logged.
	CreatedAt int64

	// Deleted is the soft-delete flag. Soft-deleted events keep their rows
	// but are excluded from summaries and history.
	Deleted bool
}

// Debt is one individual obligation derived from a DebtGroup. Debtor and
// creditor are never the same user: the payer is excluded from the fan-out.
type Debt struct {
	// ID is the unique identifier for the obligation (UUID format).
	ID string

	// GroupID references the parent DebtGroup.
	GroupID string

	// TripID is the owning trip (chat id), denormalized for trip queries.
	TripID int64

	// DebtorID owes the amount.
	DebtorID int64

	// CreditorID is owed the amount (the DebtGroup's payer).
	CreditorID int64

	// Amount is this debtor's share of the group total.
	Amount float64

	// Currency matches the parent DebtGroup's currency.
	Currency string

	// Paid reports whether the obligation has been settled.
	Paid bool

	// PaidAt is the Unix timestamp of settlement, zero while unpaid.
	PaidAt int64

	// CreatedAt is the Unix timestamp when the obligation was created.
	CreatedAt int64
}

// DebtWithContext is a Debt enriched with its parent DebtGroup's display
// fields, as returned by the filtered debt queries.
type DebtWithContext struct {
	Debt

	// Description is the parent DebtGroup's description.
	Description string

	// Category is the parent DebtGroup's category tag.
	Category string
}
