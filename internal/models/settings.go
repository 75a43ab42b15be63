package models

// NotificationPreference controls which pushes a user receives.
type NotificationPreference string

const (
	// NotifyAll delivers every debt and settlement push.
	NotifyAll NotificationPreference = "all"

	// NotifyOff suppresses all pushes for the user.
	NotifyOff NotificationPreference = "off"
)

// UserSettings is the per-user preference record, created lazily with
// defaults on first access.
type UserSettings struct {
	UserID        int64
	Notifications NotificationPreference
	Language      string
}

// DefaultSettings returns the settings a user gets before ever touching them.
func DefaultSettings(userID int64) UserSettings {
	return UserSettings{
		UserID:        userID,
		Notifications: NotifyAll,
		Language:      "en",
	}
}
