package service

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tripsplit/tripsplit/internal/models"
	"github.com/tripsplit/tripsplit/internal/storage/sqlite"
)

var testCurrencies = []string{"EUR", "USD", "RUB", "THB"}

// setupServices wires both services over a real temp-file store so the
// tests exercise the same SQL the bot does.
func setupServices(t *testing.T) (*TripService, *DebtService) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tripsplit-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewTripService(store, testCurrencies), NewDebtService(store, "💸")
}

func setupTrip(t *testing.T, trips *TripService, chatID int64, userIDs ...int64) *models.Trip {
	t.Helper()
	ctx := context.Background()

	trip, err := trips.CreateTrip(ctx, chatID, "Test trip", "EUR", userIDs[0])
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	for i, id := range userIDs {
		if _, err := trips.AddOrUpdateParticipant(ctx, chatID, id, "", names[i%len(names)]); err != nil {
			t.Fatalf("AddOrUpdateParticipant failed: %v", err)
		}
	}
	return trip
}

func TestCreateTrip(t *testing.T) {
	trips, _ := setupServices(t)
	ctx := context.Background()

	t.Run("creates with normalized currency", func(t *testing.T) {
		trip, err := trips.CreateTrip(ctx, -1, "Tbilisi", "eur", 1)
		if err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		if trip.Currency != "EUR" {
			t.Errorf("currency = %q, want EUR", trip.Currency)
		}
	})

	t.Run("rejects duplicate trip per chat", func(t *testing.T) {
		_, err := trips.CreateTrip(ctx, -1, "Second", "EUR", 1)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("duplicate CreateTrip error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects empty name and unknown currency", func(t *testing.T) {
		if _, err := trips.CreateTrip(ctx, -2, "  ", "EUR", 1); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("empty name error = %v, want ErrInvalidInput", err)
		}
		if _, err := trips.CreateTrip(ctx, -2, "Trip", "XXX", 1); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("unknown currency error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestAddOrUpdateParticipant(t *testing.T) {
	trips, _ := setupServices(t)
	ctx := context.Background()

	t.Run("no trip is a no-op, not an error", func(t *testing.T) {
		ok, err := trips.AddOrUpdateParticipant(ctx, -404, 1, "alice", "Alice")
		if err != nil {
			t.Fatalf("AddOrUpdateParticipant failed: %v", err)
		}
		if ok {
			t.Error("expected ok = false for chat without a trip")
		}
	})

	t.Run("registers, links and strips the @ prefix", func(t *testing.T) {
		setupTrip(t, trips, -10, 1)
		ok, err := trips.AddOrUpdateParticipant(ctx, -10, 2, "@bob", "Bob")
		if err != nil || !ok {
			t.Fatalf("AddOrUpdateParticipant = %v, %v; want true, nil", ok, err)
		}

		participants, err := trips.ListParticipants(ctx, -10)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(participants) != 2 {
			t.Fatalf("participants = %d, want 2", len(participants))
		}
		if participants[1].Handle != "bob" {
			t.Errorf("handle = %q, want bob without @", participants[1].Handle)
		}

		// Group activity keeps the private-chat trip link in sync.
		active, err := trips.ActiveTrip(ctx, 2)
		if err != nil {
			t.Fatalf("ActiveTrip failed: %v", err)
		}
		if active.ChatID != -10 {
			t.Errorf("active trip = %d, want -10", active.ChatID)
		}
	})
}

func TestCreateSharedExpense(t *testing.T) {
	t.Run("fans out divide-by-all shares atomically", func(t *testing.T) {
		trips, debts := setupServices(t)
		ctx := context.Background()
		setupTrip(t, trips, -20, 1, 2, 3)

		group, created, err := debts.CreateSharedExpense(ctx, CreateExpenseInput{
			TripID:         -20,
			Amount:         3000.0,
			PayerID:        1,
			ParticipantIDs: []int64{1, 2, 3},
			Description:    "taxi",
		})
		if err != nil {
			t.Fatalf("CreateSharedExpense failed: %v", err)
		}
		if group.ID == "" {
			t.Error("expected group ID to be assigned")
		}
		if group.Currency != "EUR" {
			t.Errorf("currency = %q, want trip default EUR", group.Currency)
		}
		if group.Category != "💸" {
			t.Errorf("category = %q, want default 💸", group.Category)
		}
		if len(created) != 2 {
			t.Fatalf("debts = %d, want 2 (payer absorbed)", len(created))
		}
		for _, d := range created {
			if math.Abs(d.Amount-1000.0) > 0.01 {
				t.Errorf("debt amount = %v, want 1000.0", d.Amount)
			}
			if d.CreditorID != 1 {
				t.Errorf("creditor = %d, want payer 1", d.CreditorID)
			}
		}
	})

	t.Run("duplicate participant ids collapse before division", func(t *testing.T) {
		trips, debts := setupServices(t)
		ctx := context.Background()
		setupTrip(t, trips, -21, 1, 2)

		_, created, err := debts.CreateSharedExpense(ctx, CreateExpenseInput{
			TripID:         -21,
			Amount:         100.0,
			PayerID:        1,
			ParticipantIDs: []int64{1, 2, 2, 1},
		})
		if err != nil {
			t.Fatalf("CreateSharedExpense failed: %v", err)
		}
		if len(created) != 1 {
			t.Fatalf("debts = %d, want 1", len(created))
		}
		if math.Abs(created[0].Amount-50.0) > 0.01 {
			t.Errorf("share = %v, want 50.0 (divided by 2, not 4)", created[0].Amount)
		}
	})

	t.Run("invalid inputs fail before writing", func(t *testing.T) {
		trips, debts := setupServices(t)
		ctx := context.Background()
		setupTrip(t, trips, -22, 1, 2)

		cases := []struct {
			name string
			in   CreateExpenseInput
		}{
			{"zero amount", CreateExpenseInput{TripID: -22, Amount: 0, PayerID: 1, ParticipantIDs: []int64{1, 2}}},
			{"negative amount", CreateExpenseInput{TripID: -22, Amount: -5, PayerID: 1, ParticipantIDs: []int64{1, 2}}},
			{"nan amount", CreateExpenseInput{TripID: -22, Amount: math.NaN(), PayerID: 1, ParticipantIDs: []int64{1, 2}}},
			{"single participant", CreateExpenseInput{TripID: -22, Amount: 10, PayerID: 1, ParticipantIDs: []int64{1}}},
			{"payer only after dedupe", CreateExpenseInput{TripID: -22, Amount: 10, PayerID: 1, ParticipantIDs: []int64{1, 1, 1}}},
			{"payer not in set", CreateExpenseInput{TripID: -22, Amount: 10, PayerID: 9, ParticipantIDs: []int64{1, 2}}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, _, err := debts.CreateSharedExpense(ctx, tc.in); !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
			})
		}

		history, err := debts.History(ctx, -22, 0)
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("history = %d events, want 0 after rejected inputs", len(history))
		}
	})

	t.Run("unknown trip fails with ErrNotFound", func(t *testing.T) {
		_, debts := setupServices(t)
		_, _, err := debts.CreateSharedExpense(context.Background(), CreateExpenseInput{
			TripID: -404, Amount: 10, PayerID: 1, ParticipantIDs: []int64{1, 2},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestMarkDebtPaid(t *testing.T) {
	trips, debts := setupServices(t)
	ctx := context.Background()
	setupTrip(t, trips, -30, 1, 2)

	_, created, err := debts.CreateSharedExpense(ctx, CreateExpenseInput{
		TripID: -30, Amount: 80.0, PayerID: 1, ParticipantIDs: []int64{1, 2},
	})
	if err != nil {
		t.Fatalf("CreateSharedExpense failed: %v", err)
	}
	debtID := created[0].ID

	debt, alreadyPaid, err := debts.MarkDebtPaid(ctx, debtID)
	if err != nil {
		t.Fatalf("MarkDebtPaid failed: %v", err)
	}
	if alreadyPaid {
		t.Error("first settle reported alreadyPaid = true")
	}
	if !debt.Paid {
		t.Error("debt not marked paid")
	}

	_, alreadyPaid, err = debts.MarkDebtPaid(ctx, debtID)
	if err != nil {
		t.Fatalf("MarkDebtPaid re-stamp failed: %v", err)
	}
	if !alreadyPaid {
		t.Error("re-stamp reported alreadyPaid = false")
	}

	if _, _, err := debts.MarkDebtPaid(ctx, "nonexistent-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown debt error = %v, want ErrNotFound", err)
	}
}

func TestDebtsSummary(t *testing.T) {
	trips, debts := setupServices(t)
	ctx := context.Background()
	setupTrip(t, trips, -40, 1, 2, 3)

	// Two expenses with overlapping pairs: 1 pays 90 for all, 2 pays 30
	// for {1, 2}. Expect accumulation, never netting.
	if _, _, err := debts.CreateSharedExpense(ctx, CreateExpenseInput{
		TripID: -40, Amount: 90.0, PayerID: 1, ParticipantIDs: []int64{1, 2, 3},
	}); err != nil {
		t.Fatalf("CreateSharedExpense failed: %v", err)
	}
	if _, _, err := debts.CreateSharedExpense(ctx, CreateExpenseInput{
		TripID: -40, Amount: 30.0, PayerID: 2, ParticipantIDs: []int64{1, 2},
	}); err != nil {
		t.Fatalf("CreateSharedExpense failed: %v", err)
	}

	summary, err := debts.DebtsSummary(ctx, -40)
	if err != nil {
		t.Fatalf("DebtsSummary failed: %v", err)
	}
	if len(summary) != 3 {
		t.Fatalf("summary = %d lines, want 3 (no netting)", len(summary))
	}

	byPair := make(map[[2]int64]float64)
	for _, line := range summary {
		byPair[[2]int64{line.DebtorID, line.CreditorID}] = line.Total
	}
	for pair, want := range map[[2]int64]float64{
		{2, 1}: 30.0,
		{3, 1}: 30.0,
		{1, 2}: 15.0,
	} {
		if got := byPair[pair]; math.Abs(got-want) > 0.01 {
			t.Errorf("pair %v total = %v, want %v", pair, got, want)
		}
	}

	t.Run("role-filtered views match the summary", func(t *testing.T) {
		mine, err := debts.MyDebts(ctx, -40, 2)
		if err != nil {
			t.Fatalf("MyDebts failed: %v", err)
		}
		if len(mine) != 1 || math.Abs(mine[0].Amount-30.0) > 0.01 {
			t.Errorf("MyDebts(2) = %v, want one debt of 30.0", mine)
		}

		owed, err := debts.DebtsToUser(ctx, -40, 1)
		if err != nil {
			t.Fatalf("DebtsToUser failed: %v", err)
		}
		if len(owed) != 2 {
			t.Errorf("DebtsToUser(1) = %d debts, want 2", len(owed))
		}
	})

	t.Run("settling removes the line", func(t *testing.T) {
		mine, err := debts.MyDebts(ctx, -40, 3)
		if err != nil || len(mine) != 1 {
			t.Fatalf("setup: MyDebts(3) = %v, err = %v", mine, err)
		}
		if _, _, err := debts.MarkDebtPaid(ctx, mine[0].ID); err != nil {
			t.Fatalf("MarkDebtPaid failed: %v", err)
		}

		summary, err := debts.DebtsSummary(ctx, -40)
		if err != nil {
			t.Fatalf("DebtsSummary failed: %v", err)
		}
		if len(summary) != 2 {
			t.Errorf("summary after settle = %d lines, want 2", len(summary))
		}
	})
}

func TestRemoveExpense(t *testing.T) {
	trips, debts := setupServices(t)
	ctx := context.Background()
	setupTrip(t, trips, -50, 1, 2)

	group, _, err := debts.CreateSharedExpense(ctx, CreateExpenseInput{
		TripID: -50, Amount: 60.0, PayerID: 1, ParticipantIDs: []int64{1, 2},
	})
	if err != nil {
		t.Fatalf("CreateSharedExpense failed: %v", err)
	}

	if err := debts.RemoveExpense(ctx, group.ID); err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}

	summary, err := debts.DebtsSummary(ctx, -50)
	if err != nil {
		t.Fatalf("DebtsSummary failed: %v", err)
	}
	if len(summary) != 0 {
		t.Errorf("summary after removal = %d lines, want 0", len(summary))
	}

	history, err := debts.History(ctx, -50, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history after removal = %d events, want 0", len(history))
	}

	if err := debts.RemoveExpense(ctx, "nonexistent-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown group error = %v, want ErrNotFound", err)
	}
}

func TestDeleteTripCompletely(t *testing.T) {
	trips, debts := setupServices(t)
	ctx := context.Background()
	setupTrip(t, trips, -60, 1, 2)

	if _, _, err := debts.CreateSharedExpense(ctx, CreateExpenseInput{
		TripID: -60, Amount: 40.0, PayerID: 1, ParticipantIDs: []int64{1, 2},
	}); err != nil {
		t.Fatalf("CreateSharedExpense failed: %v", err)
	}

	deleted, err := trips.DeleteTripCompletely(ctx, -60)
	if err != nil {
		t.Fatalf("DeleteTripCompletely failed: %v", err)
	}
	if !deleted {
		t.Error("expected deleted = true")
	}

	if _, err := trips.Trip(ctx, -60); !errors.Is(err, ErrNotFound) {
		t.Errorf("Trip after delete = %v, want ErrNotFound", err)
	}

	// Re-running reports nothing to delete.
	deleted, err = trips.DeleteTripCompletely(ctx, -60)
	if err != nil {
		t.Fatalf("DeleteTripCompletely re-run failed: %v", err)
	}
	if deleted {
		t.Error("expected deleted = false on second run")
	}
}

func TestUserSettings(t *testing.T) {
	trips, _ := setupServices(t)
	ctx := context.Background()

	settings, err := trips.Settings(ctx, 5)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings.Notifications != models.NotifyAll {
		t.Errorf("default notifications = %q, want %q", settings.Notifications, models.NotifyAll)
	}

	if err := trips.SetNotifications(ctx, 5, models.NotifyOff); err != nil {
		t.Fatalf("SetNotifications failed: %v", err)
	}
	settings, err = trips.Settings(ctx, 5)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings.Notifications != models.NotifyOff {
		t.Errorf("notifications = %q, want %q", settings.Notifications, models.NotifyOff)
	}

	if err := trips.SetNotifications(ctx, 5, "weekly"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("invalid preference error = %v, want ErrInvalidInput", err)
	}
}

func TestSwitchActiveTrip(t *testing.T) {
	trips, _ := setupServices(t)
	ctx := context.Background()
	setupTrip(t, trips, -70, 1)
	setupTrip(t, trips, -71, 1)

	// First group joined stays active until switched explicitly.
	active, err := trips.ActiveTrip(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveTrip failed: %v", err)
	}
	if active.ChatID != -70 {
		t.Errorf("active = %d, want -70", active.ChatID)
	}

	if err := trips.SwitchActiveTrip(ctx, 1, -71); err != nil {
		t.Fatalf("SwitchActiveTrip failed: %v", err)
	}
	active, err = trips.ActiveTrip(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveTrip failed: %v", err)
	}
	if active.ChatID != -71 {
		t.Errorf("active = %d, want -71", active.ChatID)
	}

	if err := trips.SwitchActiveTrip(ctx, 1, -999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unlinked trip error = %v, want ErrNotFound", err)
	}

	if _, err := trips.ActiveTrip(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user error = %v, want ErrNotFound", err)
	}
}
