package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tripsplit/tripsplit/internal/calculator"
	"github.com/tripsplit/tripsplit/internal/models"
	"github.com/tripsplit/tripsplit/internal/storage"
)

// DebtService is the debt engine: it turns shared expenses into per-person
// obligations, tracks them to repayment and derives summaries.
type DebtService struct {
	store           storage.Store
	defaultCategory string
}

// NewDebtService creates a DebtService with the given storage backend.
func NewDebtService(store storage.Store, defaultCategory string) *DebtService {
	return &DebtService{store: store, defaultCategory: defaultCategory}
}

// CreateExpenseInput is everything needed to log one shared expense.
// Currency may be empty, in which case the trip's default applies.
type CreateExpenseInput struct {
	TripID         int64
	Amount         float64
	PayerID        int64
	ParticipantIDs []int64
	Description    string
	Category       string
	Currency       string
}

// CreateSharedExpense logs one expense event and fans it out into per-debtor
// obligations, all persisted atomically.
//
// The division convention is fixed: the amount is divided by the FULL
// participant set (payer included) and the payer's own share is absorbed.
// Preconditions: amount > 0, at least 2 distinct participants, payer among
// them. Violations fail with ErrInvalidInput before anything is written.
func (s *DebtService) CreateSharedExpense(ctx context.Context, in CreateExpenseInput) (*models.DebtGroup, []models.Debt, error) {
	// Negated comparison so NaN fails the precondition too.
	if !(in.Amount > 0) {
		return nil, nil, fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidInput, in.Amount)
	}

	participants := dedupe(in.ParticipantIDs)
	if len(participants) < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 distinct participants, got %d", ErrInvalidInput, len(participants))
	}
	payerIncluded := false
	for _, id := range participants {
		if id == in.PayerID {
			payerIncluded = true
			break
		}
	}
	if !payerIncluded {
		return nil, nil, fmt.Errorf("%w: payer %d is not in the participant set", ErrInvalidInput, in.PayerID)
	}

	trip, err := readWithRetry(ctx, func(ctx context.Context) (*models.Trip, error) {
		return s.store.GetTrip(ctx, in.TripID)
	})
	if err != nil {
		return nil, nil, err
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = trip.Currency
	}
	category := in.Category
	if category == "" {
		category = s.defaultCategory
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = "general expense"
	}

	group := &models.DebtGroup{
		TripID:         in.TripID,
		Total:          in.Amount,
		Currency:       currency,
		PayerID:        in.PayerID,
		ParticipantIDs: participants,
		Description:    description,
		Category:       category,
	}

	shares := calculator.FanOut(in.Amount, in.PayerID, participants)
	debts := make([]models.Debt, len(shares))
	for i, share := range shares {
		debts[i] = models.Debt{
			DebtorID:   share.DebtorID,
			CreditorID: in.PayerID,
			Amount:     share.Amount,
		}
	}

	// One transactional write; a timeout here is surfaced, never retried,
	// to avoid logging the expense twice.
	cctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.store.CreateDebtGroupAndDebts(cctx, group, debts); err != nil {
		slog.Error("CreateSharedExpense failed", "trip_id", in.TripID, "error", err)
		return nil, nil, classify(err)
	}

	slog.Info("Shared expense created",
		"trip_id", in.TripID,
		"group_id", group.ID,
		"total", group.Total,
		"currency", group.Currency,
		"payer_id", group.PayerID,
		"debtors", len(debts),
	)
	return group, debts, nil
}

// MarkDebtPaid settles one obligation. Settling an already-paid debt is a
// harmless re-stamp; alreadyPaid lets callers skip duplicate notifications.
func (s *DebtService) MarkDebtPaid(ctx context.Context, debtID string) (debt *models.Debt, alreadyPaid bool, err error) {
	cctx, cancel := withTimeout(ctx)
	defer cancel()
	debt, alreadyPaid, err = s.store.MarkDebtPaid(cctx, debtID)
	if err != nil {
		slog.Error("MarkDebtPaid failed", "debt_id", debtID, "error", err)
		return nil, false, classify(err)
	}

	slog.Info("Debt settled", "debt_id", debtID, "amount", debt.Amount, "restamp", alreadyPaid)
	return debt, alreadyPaid, nil
}

// DebtsSummary aggregates the trip's unpaid debts per (debtor, creditor,
// currency). Plain accumulation, no netting of opposing pairs.
func (s *DebtService) DebtsSummary(ctx context.Context, tripID int64) ([]calculator.SummaryLine, error) {
	debts, err := readWithRetry(ctx, func(ctx context.Context) ([]models.DebtWithContext, error) {
		return s.store.ListUnpaidDebts(ctx, storage.DebtFilter{TripID: tripID})
	})
	if err != nil {
		return nil, err
	}

	obligations := make([]calculator.Obligation, len(debts))
	for i, d := range debts {
		obligations[i] = calculator.Obligation{
			DebtorID:   d.DebtorID,
			CreditorID: d.CreditorID,
			Amount:     d.Amount,
			Currency:   d.Currency,
		}
	}
	return calculator.Summarize(obligations), nil
}

// MyDebts returns what the user owes in this trip, unpaid only, enriched
// with each parent event's description and category.
func (s *DebtService) MyDebts(ctx context.Context, tripID, userID int64) ([]models.DebtWithContext, error) {
	return readWithRetry(ctx, func(ctx context.Context) ([]models.DebtWithContext, error) {
		return s.store.ListUnpaidDebts(ctx, storage.DebtFilter{TripID: tripID, DebtorID: userID})
	})
}

// DebtsToUser returns what others owe the user in this trip, unpaid only.
func (s *DebtService) DebtsToUser(ctx context.Context, tripID, userID int64) ([]models.DebtWithContext, error) {
	return readWithRetry(ctx, func(ctx context.Context) ([]models.DebtWithContext, error) {
		return s.store.ListUnpaidDebts(ctx, storage.DebtFilter{TripID: tripID, CreditorID: userID})
	})
}

// Debt returns one obligation by id.
func (s *DebtService) Debt(ctx context.Context, debtID string) (*models.Debt, error) {
	return readWithRetry(ctx, func(ctx context.Context) (*models.Debt, error) {
		return s.store.GetDebt(ctx, debtID)
	})
}

// DebtGroup returns one expense event by id.
func (s *DebtService) DebtGroup(ctx context.Context, groupID string) (*models.DebtGroup, error) {
	return readWithRetry(ctx, func(ctx context.Context) (*models.DebtGroup, error) {
		return s.store.GetDebtGroup(ctx, groupID)
	})
}

// History returns the trip's most recent expense events, newest first.
func (s *DebtService) History(ctx context.Context, tripID int64, limit int) ([]models.DebtGroup, error) {
	return readWithRetry(ctx, func(ctx context.Context) ([]models.DebtGroup, error) {
		return s.store.ListDebtGroups(ctx, tripID, limit)
	})
}

// RemoveExpense soft-deletes an expense event, hiding it and its debts
// from summaries and history. The rows stay for audit.
func (s *DebtService) RemoveExpense(ctx context.Context, groupID string) error {
	cctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.store.SoftDeleteDebtGroup(cctx, groupID); err != nil {
		slog.Error("RemoveExpense failed", "group_id", groupID, "error", err)
		return classify(err)
	}
	return nil
}

// dedupe removes duplicate ids preserving first-seen order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
