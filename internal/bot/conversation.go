package bot

import (
	"sync"
	"time"
)

// stage is the explicit conversation state machine. A user is in at most
// one flow at a time; the zero value means no flow in progress.
type stage int

const (
	stageNone stage = iota

	// Trip creation: /newtrip → name → currency.
	stageTripName
	stageTripCurrency

	// Expense entry: parsed line → payer → category.
	stageExpensePayer
	stageExpenseCategory
)

// expenseDraft is the partially collected expense. The engine is only
// called once, with the complete draft, never with partial data.
type expenseDraft struct {
	TripID         int64
	Amount         float64
	Currency       string
	ParticipantIDs []int64
	Description    string
	PayerID        int64
}

// convState is one user's in-flight flow.
type convState struct {
	Stage stage

	// ChatID is the group chat the flow belongs to.
	ChatID int64

	// TripName carries the pending name between trip-creation steps.
	TripName string

	// Expense carries the pending draft between expense steps.
	Expense *expenseDraft

	expiresAt time.Time
}

// conversations is a TTL-bound in-memory store of per-user flow state.
// Abandoned flows simply age out.
type conversations struct {
	mu  sync.Mutex
	m   map[int64]*convState
	ttl time.Duration
}

func newConversations(ttl time.Duration) *conversations {
	return &conversations{m: make(map[int64]*convState), ttl: ttl}
}

// get returns the user's current state, or nil when none or expired.
func (c *conversations) get(userID int64) *convState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.m[userID]
	if !ok {
		return nil
	}
	if time.Now().After(state.expiresAt) {
		delete(c.m, userID)
		return nil
	}
	return state
}

// set stores the user's state, refreshing its TTL.
func (c *conversations) set(userID int64, state *convState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state.expiresAt = time.Now().Add(c.ttl)
	c.m[userID] = state
}

// clear drops the user's state.
func (c *conversations) clear(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, userID)
}
