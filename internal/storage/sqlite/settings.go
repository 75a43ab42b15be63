package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tripsplit/tripsplit/internal/models"
)

// GetUserSettings returns the user's settings, creating the default record
// on first access.
func (s *SQLiteStore) GetUserSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings := &models.UserSettings{UserID: userID}
	var notifications string
	err := s.db.QueryRowContext(ctx,
		"SELECT notifications, language FROM user_settings WHERE user_id = ?",
		userID,
	).Scan(&notifications, &settings.Language)
	if err == sql.ErrNoRows {
		def := models.DefaultSettings(userID)
		if err := s.UpsertUserSettings(ctx, def); err != nil {
			return nil, err
		}
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}
	settings.Notifications = models.NotificationPreference(notifications)
	return settings, nil
}

// UpsertUserSettings writes the settings record in place.
func (s *SQLiteStore) UpsertUserSettings(ctx context.Context, settings models.UserSettings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, notifications, language)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET notifications = excluded.notifications, language = excluded.language`,
		settings.UserID, string(settings.Notifications), settings.Language,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user settings: %w", err)
	}
	return nil
}
