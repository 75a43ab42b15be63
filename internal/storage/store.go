// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tripsplit/tripsplit/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist. Callers
// match it with errors.Is.
var ErrNotFound = errors.New("not found")

// DebtFilter selects unpaid debts of a trip. Zero fields are wildcards;
// setting DebtorID or CreditorID narrows by role.
type DebtFilter struct {
	TripID     int64
	DebtorID   int64
	CreditorID int64
}

// Store defines the ledger's persistence contract. The document-store
// flavor of the interface (per-entity CRUD plus simple filtered reads) is
// deliberate: the services never compose SQL, they call these.
//
// CreateDebtGroupAndDebts is the one multi-entity write and must be atomic:
// no Debt may be observable without its DebtGroup.
type Store interface {
	// CreateTrip persists a new trip. The chat id is the trip id.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip with its participant list.
	// Returns ErrNotFound if the chat has no trip.
	GetTrip(ctx context.Context, chatID int64) (*models.Trip, error)

	// DeleteTripCascade hard-deletes the trip and every DebtGroup and Debt
	// referencing it, and removes the trip id from all user trip links
	// (reassigning active pointers that referenced it). Safe to re-run.
	DeleteTripCascade(ctx context.Context, chatID int64) error

	// AddParticipant idempotently adds a user to the trip's participant
	// list, updating handle/display name when the user is already present.
	// Returns ErrNotFound when the trip does not exist.
	AddParticipant(ctx context.Context, chatID int64, p models.Participant) error

	// ListParticipants returns the trip's participants in insertion order.
	ListParticipants(ctx context.Context, chatID int64) ([]models.Participant, error)

	// CreateDebtGroupAndDebts persists one DebtGroup and its fanned-out
	// Debts as a single atomic unit, assigning IDs and timestamps.
	CreateDebtGroupAndDebts(ctx context.Context, group *models.DebtGroup, debts []models.Debt) error

	// GetDebtGroup retrieves one expense event.
	GetDebtGroup(ctx context.Context, groupID string) (*models.DebtGroup, error)

	// ListDebtGroups returns the trip's events newest first, excluding
	// soft-deleted ones. A limit of 0 means no limit.
	ListDebtGroups(ctx context.Context, chatID int64, limit int) ([]models.DebtGroup, error)

	// SoftDeleteDebtGroup flips the event's soft-delete flag, hiding it and
	// its debts from summaries and history.
	SoftDeleteDebtGroup(ctx context.Context, groupID string) error

	// GetDebt retrieves one obligation.
	GetDebt(ctx context.Context, debtID string) (*models.Debt, error)

	// ListUnpaidDebts returns unpaid debts matching the filter, enriched
	// with the parent event's description and category. Debts whose parent
	// is soft-deleted are excluded.
	ListUnpaidDebts(ctx context.Context, f DebtFilter) ([]models.DebtWithContext, error)

	// MarkDebtPaid stamps the debt paid. Already-paid debts are re-stamped,
	// not rejected; the returned previous state lets callers detect that.
	MarkDebtPaid(ctx context.Context, debtID string) (debt *models.Debt, wasPaid bool, err error)

	// GetUserSettings returns the user's settings, creating the default
	// record on first access.
	GetUserSettings(ctx context.Context, userID int64) (*models.UserSettings, error)

	// UpsertUserSettings writes the settings record in place.
	UpsertUserSettings(ctx context.Context, s models.UserSettings) error

	// GetUserTripLink returns the user's trip link record, or an empty
	// record (no error) for unknown users.
	GetUserTripLink(ctx context.Context, userID int64) (*models.UserTripLink, error)

	// LinkUserToTrip adds the trip to the user's known set. The active
	// pointer is set only when previously empty.
	LinkUserToTrip(ctx context.Context, userID, chatID int64) error

	// SetActiveTrip explicitly switches the user's active trip. Returns
	// ErrNotFound when the trip is not in the user's set.
	SetActiveTrip(ctx context.Context, userID, chatID int64) error

	// Close releases any resources held by the store.
	Close() error
}
