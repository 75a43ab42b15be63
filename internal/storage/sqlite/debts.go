package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripsplit/tripsplit/internal/models"
	"github.com/tripsplit/tripsplit/internal/storage"
)

// CreateDebtGroupAndDebts persists one DebtGroup and its fanned-out Debts
// as a single transaction: no Debt is observable without its group.
func (s *SQLiteStore) CreateDebtGroupAndDebts(ctx context.Context, group *models.DebtGroup, debts []models.Debt) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO debt_groups (id, trip_id, total, currency, payer_id, description, category, created_at, deleted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		group.ID, group.TripID, group.Total, group.Currency, group.PayerID,
		group.Description, group.Category, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt group: %w", err)
	}

	for _, userID := range group.ParticipantIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO debt_group_members (group_id, user_id) VALUES (?, ?)",
			group.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	for i := range debts {
		debt := &debts[i]
		if debt.ID == "" {
			debt.ID = uuid.New().String()
		}
		debt.GroupID = group.ID
		debt.TripID = group.TripID
		debt.Currency = group.Currency
		if debt.CreatedAt == 0 {
			debt.CreatedAt = group.CreatedAt
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO debts (id, group_id, trip_id, debtor_id, creditor_id, amount, currency, paid, paid_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, ?)`,
			debt.ID, debt.GroupID, debt.TripID, debt.DebtorID, debt.CreditorID,
			debt.Amount, debt.Currency, debt.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDebtGroup retrieves one expense event with its member set.
func (s *SQLiteStore) GetDebtGroup(ctx context.Context, groupID string) (*models.DebtGroup, error) {
	group := &models.DebtGroup{}
	var deleted int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, total, currency, payer_id, description, category, created_at, deleted
		 FROM debt_groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.TripID, &group.Total, &group.Currency, &group.PayerID,
		&group.Description, &group.Category, &group.CreatedAt, &deleted)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("debt group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt group: %w", err)
	}
	group.Deleted = deleted != 0

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM debt_group_members WHERE group_id = ? ORDER BY rowid", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.ParticipantIDs = append(group.ParticipantIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return group, nil
}

// ListDebtGroups returns the trip's events newest first, excluding
// soft-deleted ones.
func (s *SQLiteStore) ListDebtGroups(ctx context.Context, chatID int64, limit int) ([]models.DebtGroup, error) {
	query := `SELECT id, trip_id, total, currency, payer_id, description, category, created_at
		 FROM debt_groups WHERE trip_id = ? AND deleted = 0 ORDER BY created_at DESC, rowid DESC`
	args := []any{chatID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debt groups: %w", err)
	}
	defer rows.Close()

	var groups []models.DebtGroup
	for rows.Next() {
		var g models.DebtGroup
		if err := rows.Scan(&g.ID, &g.TripID, &g.Total, &g.Currency, &g.PayerID,
			&g.Description, &g.Category, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt groups: %w", err)
	}
	return groups, nil
}

// SoftDeleteDebtGroup flips the event's soft-delete flag.
func (s *SQLiteStore) SoftDeleteDebtGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debt_groups SET deleted = 1 WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete debt group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check soft-delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("debt group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// GetDebt retrieves one obligation.
func (s *SQLiteStore) GetDebt(ctx context.Context, debtID string) (*models.Debt, error) {
	debt := &models.Debt{}
	var paid int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, trip_id, debtor_id, creditor_id, amount, currency, paid, paid_at, created_at
		 FROM debts WHERE id = ?`,
		debtID,
	).Scan(&debt.ID, &debt.GroupID, &debt.TripID, &debt.DebtorID, &debt.CreditorID,
		&debt.Amount, &debt.Currency, &paid, &debt.PaidAt, &debt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("debt %s: %w", debtID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	debt.Paid = paid != 0
	return debt, nil
}

// ListUnpaidDebts returns unpaid debts matching the filter, enriched with
// the parent event's description and category. Debts of soft-deleted events
// are excluded.
func (s *SQLiteStore) ListUnpaidDebts(ctx context.Context, f storage.DebtFilter) ([]models.DebtWithContext, error) {
	query := `SELECT d.id, d.group_id, d.trip_id, d.debtor_id, d.creditor_id, d.amount, d.currency,
			d.paid_at, d.created_at, g.description, g.category
		 FROM debts d
		 JOIN debt_groups g ON g.id = d.group_id
		 WHERE d.paid = 0 AND g.deleted = 0 AND d.trip_id = ?`
	args := []any{f.TripID}
	if f.DebtorID != 0 {
		query += " AND d.debtor_id = ?"
		args = append(args, f.DebtorID)
	}
	if f.CreditorID != 0 {
		query += " AND d.creditor_id = ?"
		args = append(args, f.CreditorID)
	}
	query += " ORDER BY d.created_at, d.rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid debts: %w", err)
	}
	defer rows.Close()

	var debts []models.DebtWithContext
	for rows.Next() {
		var d models.DebtWithContext
		if err := rows.Scan(&d.ID, &d.GroupID, &d.TripID, &d.DebtorID, &d.CreditorID,
			&d.Amount, &d.Currency, &d.PaidAt, &d.CreatedAt, &d.Description, &d.Category); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}

// MarkDebtPaid stamps the debt paid. An already-paid debt is re-stamped;
// the returned wasPaid tells callers which case they hit. The read and the
// update share one transaction so concurrent settles are safe.
func (s *SQLiteStore) MarkDebtPaid(ctx context.Context, debtID string) (*models.Debt, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var paid int
	err = tx.QueryRowContext(ctx, "SELECT paid FROM debts WHERE id = ?", debtID).Scan(&paid)
	if err == sql.ErrNoRows {
		return nil, false, fmt.Errorf("debt %s: %w", debtID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read debt: %w", err)
	}

	paidAt := time.Now().Unix()
	if _, err := tx.ExecContext(ctx,
		"UPDATE debts SET paid = 1, paid_at = ? WHERE id = ?", paidAt, debtID); err != nil {
		return nil, false, fmt.Errorf("failed to mark debt paid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, false, err
	}
	return debt, paid != 0, nil
}
