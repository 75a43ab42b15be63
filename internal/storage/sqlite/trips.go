package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tripsplit/tripsplit/internal/models"
	"github.com/tripsplit/tripsplit/internal/storage"
)

// CreateTrip persists a new trip to the database.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	trip.Active = true

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO trips (chat_id, name, currency, creator_id, created_at, active) VALUES (?, ?, ?, ?, ?, 1)",
		trip.ChatID, trip.Name, trip.Currency, trip.CreatorID, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by chat id, including its participant list.
func (s *SQLiteStore) GetTrip(ctx context.Context, chatID int64) (*models.Trip, error) {
	trip := &models.Trip{}
	var active int
	err := s.db.QueryRowContext(ctx,
		"SELECT chat_id, name, currency, creator_id, created_at, active FROM trips WHERE chat_id = ?",
		chatID,
	).Scan(&trip.ChatID, &trip.Name, &trip.Currency, &trip.CreatorID, &trip.CreatedAt, &active)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trip %d: %w", chatID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	trip.Active = active != 0

	trip.Participants, err = s.ListParticipants(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// AddParticipant idempotently adds a user to the trip's participant list.
// An existing row keeps its position; only handle and display name change.
func (s *SQLiteStore) AddParticipant(ctx context.Context, chatID int64, p models.Participant) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE chat_id = ?", chatID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("trip %d: %w", chatID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check trip existence: %w", err)
	}

	if p.JoinedAt == 0 {
		p.JoinedAt = time.Now().Unix()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO participants (trip_id, user_id, handle, display_name, joined_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(trip_id, user_id) DO UPDATE SET handle = excluded.handle, display_name = excluded.display_name`,
		chatID, p.UserID, p.Handle, p.DisplayName, p.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert participant: %w", err)
	}
	return nil
}

// ListParticipants returns the trip's participants in insertion order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, chatID int64) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, handle, display_name, joined_at FROM participants WHERE trip_id = ? ORDER BY rowid",
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.UserID, &p.Handle, &p.DisplayName, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// DeleteTripCascade hard-deletes the trip and everything referencing it.
// Foreign-key cascades remove participants, debt groups, debts and trip
// links; active pointers that referenced the trip are reassigned to the
// user's first remaining trip. Re-running on a missing trip is a no-op.
func (s *SQLiteStore) DeleteTripCascade(ctx context.Context, chatID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Users whose active pointer is about to be cascaded away.
	rows, err := tx.QueryContext(ctx,
		"SELECT user_id FROM user_trips WHERE trip_id = ? AND active = 1", chatID)
	if err != nil {
		return fmt.Errorf("failed to query active links: %w", err)
	}
	var orphaned []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan link: %w", err)
		}
		orphaned = append(orphaned, userID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate links: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM trips WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	for _, userID := range orphaned {
		_, err := tx.ExecContext(ctx,
			`UPDATE user_trips SET active = 1
			 WHERE user_id = ? AND trip_id = (SELECT MIN(trip_id) FROM user_trips WHERE user_id = ?)`,
			userID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to reassign active trip for user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetUserTripLink returns the user's trip link record. Unknown users get an
// empty record, not an error.
func (s *SQLiteStore) GetUserTripLink(ctx context.Context, userID int64) (*models.UserTripLink, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT trip_id, active FROM user_trips WHERE user_id = ? ORDER BY rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip links: %w", err)
	}
	defer rows.Close()

	link := &models.UserTripLink{UserID: userID}
	for rows.Next() {
		var tripID int64
		var active int
		if err := rows.Scan(&tripID, &active); err != nil {
			return nil, fmt.Errorf("failed to scan trip link: %w", err)
		}
		link.TripIDs = append(link.TripIDs, tripID)
		if active != 0 {
			link.ActiveTripID = tripID
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trip links: %w", err)
	}
	return link, nil
}

// LinkUserToTrip adds the trip to the user's known set. The active pointer
// is only auto-set when the user had none.
func (s *SQLiteStore) LinkUserToTrip(ctx context.Context, userID, chatID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_trips (user_id, trip_id, active) VALUES (?, ?, 0)",
		userID, chatID,
	); err != nil {
		return fmt.Errorf("failed to insert trip link: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_trips SET active = 1
		 WHERE user_id = ? AND trip_id = ?
		   AND NOT EXISTS (SELECT 1 FROM user_trips WHERE user_id = ? AND active = 1)`,
		userID, chatID, userID,
	); err != nil {
		return fmt.Errorf("failed to set active trip: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetActiveTrip explicitly switches the user's active trip.
func (s *SQLiteStore) SetActiveTrip(ctx context.Context, userID, chatID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM user_trips WHERE user_id = ? AND trip_id = ?", userID, chatID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("user %d has no link to trip %d: %w", userID, chatID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check trip link: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE user_trips SET active = 0 WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear active trip: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE user_trips SET active = 1 WHERE user_id = ? AND trip_id = ?", userID, chatID); err != nil {
		return fmt.Errorf("failed to set active trip: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
