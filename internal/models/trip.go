package models

// Trip is a bounded expense-sharing context scoped to one group chat.
// The chat id doubles as the trip id: at most one active trip per chat.
type Trip struct {
	// ChatID is the Telegram group chat this trip belongs to.
	ChatID int64

	// Name is the display name, usually the chat title.
	Name string

	// Currency is the default currency code for expenses in this trip.
	// Individual DebtGroups may override it.
	Currency string

	// CreatorID is the user who created the trip.
	CreatorID int64

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64

	// Active reports whether the trip is the chat's current trip.
	Active bool

	// Participants is the trip's member list in insertion order.
	Participants []Participant
}

// Participant is a known user inside one trip.
type Participant struct {
	// UserID is the Telegram user id.
	UserID int64

	// Handle is the Telegram username without the leading @, may be empty.
	Handle string

	// DisplayName is the user's first name as seen in the chat.
	DisplayName string

	// JoinedAt is the Unix timestamp when the user was first observed.
	JoinedAt int64
}

// ParticipantName resolves a user id to a display string. With tagged=true
// the @handle form is used when available, which Telegram renders as a
// clickable mention; summaries pass tagged=false to avoid pinging everyone.
func (t *Trip) ParticipantName(userID int64, tagged bool) string {
	for _, p := range t.Participants {
		if p.UserID != userID {
			continue
		}
		if p.Handle != "" {
			if tagged {
				return "@" + p.Handle
			}
			return p.Handle
		}
		return p.DisplayName
	}
	return "Unknown"
}

// UserTripLink records which trips a user is known in and which one their
// private-chat commands act on.
type UserTripLink struct {
	UserID int64

	// TripIDs are all trips the user has been associated with.
	TripIDs []int64

	// ActiveTripID is the trip private-chat commands resolve against.
	// Zero means none.
	ActiveTripID int64
}
