package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tripsplit/tripsplit/internal/models"
	"github.com/tripsplit/tripsplit/internal/storage"
)

// TripService owns trip lifecycle, the participant registry and per-user
// trip links and settings.
type TripService struct {
	store      storage.Store
	currencies []string
}

// NewTripService creates a TripService. The currency set comes from
// configuration, never from literals in here.
func NewTripService(store storage.Store, currencies []string) *TripService {
	return &TripService{store: store, currencies: currencies}
}

// ValidCurrency reports whether code is in the configured currency set,
// case-insensitively.
func (s *TripService) ValidCurrency(code string) bool {
	for _, c := range s.currencies {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

// CreateTrip creates the chat's trip. A chat with an existing trip is
// rejected: one active trip per chat, and replacing one requires an
// explicit delete first.
func (s *TripService) CreateTrip(ctx context.Context, chatID int64, name, currency string, creatorID int64) (*models.Trip, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: trip name is empty", ErrInvalidInput)
	}
	if !s.ValidCurrency(currency) {
		return nil, fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, currency)
	}

	if _, err := s.Trip(ctx, chatID); err == nil {
		return nil, fmt.Errorf("%w: chat %d already has a trip", ErrInvalidInput, chatID)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	trip := &models.Trip{
		ChatID:    chatID,
		Name:      strings.TrimSpace(name),
		Currency:  strings.ToUpper(currency),
		CreatorID: creatorID,
	}

	cctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.store.CreateTrip(cctx, trip); err != nil {
		slog.Error("CreateTrip failed", "chat_id", chatID, "error", err)
		return nil, classify(err)
	}

	slog.Info("Trip created", "chat_id", chatID, "name", trip.Name, "currency", trip.Currency)
	return trip, nil
}

// Trip retrieves the chat's trip with participants.
func (s *TripService) Trip(ctx context.Context, chatID int64) (*models.Trip, error) {
	return readWithRetry(ctx, func(ctx context.Context) (*models.Trip, error) {
		return s.store.GetTrip(ctx, chatID)
	})
}

// AddOrUpdateParticipant idempotently registers a user in the trip,
// updating handle and display name when they changed. Returns false (and
// no error) when the chat has no trip yet: observing activity in a chat
// without a trip is not an error, just a no-op.
func (s *TripService) AddOrUpdateParticipant(ctx context.Context, chatID, userID int64, handle, displayName string) (bool, error) {
	p := models.Participant{
		UserID:      userID,
		Handle:      strings.TrimPrefix(handle, "@"),
		DisplayName: displayName,
	}

	cctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.store.AddParticipant(cctx, chatID, p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		slog.Error("AddParticipant failed", "chat_id", chatID, "user_id", userID, "error", err)
		return false, classify(err)
	}

	// Keep the user's private-chat trip link in sync with group activity.
	lctx, lcancel := withTimeout(ctx)
	defer lcancel()
	if err := s.store.LinkUserToTrip(lctx, userID, chatID); err != nil {
		slog.Error("LinkUserToTrip failed", "chat_id", chatID, "user_id", userID, "error", err)
		return true, classify(err)
	}
	return true, nil
}

// ListParticipants returns the trip's participants in insertion order.
func (s *TripService) ListParticipants(ctx context.Context, chatID int64) ([]models.Participant, error) {
	return readWithRetry(ctx, func(ctx context.Context) ([]models.Participant, error) {
		return s.store.ListParticipants(ctx, chatID)
	})
}

// DeleteTripCompletely hard-deletes the trip and everything under it:
// debts, debt groups, participants and trip links, with active pointers
// reassigned. Returns whether a trip existed. Safe to re-run after a
// partial prior failure.
func (s *TripService) DeleteTripCompletely(ctx context.Context, chatID int64) (bool, error) {
	if _, err := s.Trip(ctx, chatID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	cctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.store.DeleteTripCascade(cctx, chatID); err != nil {
		slog.Error("DeleteTripCascade failed", "chat_id", chatID, "error", err)
		return false, classify(err)
	}

	slog.Info("Trip deleted", "chat_id", chatID)
	return true, nil
}

// ActiveTrip resolves the trip a user's private-chat commands act on.
func (s *TripService) ActiveTrip(ctx context.Context, userID int64) (*models.Trip, error) {
	link, err := readWithRetry(ctx, func(ctx context.Context) (*models.UserTripLink, error) {
		return s.store.GetUserTripLink(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	if link.ActiveTripID == 0 {
		return nil, fmt.Errorf("user %d has no active trip: %w", userID, ErrNotFound)
	}
	return s.Trip(ctx, link.ActiveTripID)
}

// TripLink returns the user's full trip link record.
func (s *TripService) TripLink(ctx context.Context, userID int64) (*models.UserTripLink, error) {
	return readWithRetry(ctx, func(ctx context.Context) (*models.UserTripLink, error) {
		return s.store.GetUserTripLink(ctx, userID)
	})
}

// SwitchActiveTrip explicitly repoints the user's active trip.
func (s *TripService) SwitchActiveTrip(ctx context.Context, userID, chatID int64) error {
	cctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.store.SetActiveTrip(cctx, userID, chatID); err != nil {
		slog.Error("SetActiveTrip failed", "user_id", userID, "chat_id", chatID, "error", err)
		return classify(err)
	}
	return nil
}

// Settings returns the user's settings, creating defaults on first access.
func (s *TripService) Settings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	return readWithRetry(ctx, func(ctx context.Context) (*models.UserSettings, error) {
		return s.store.GetUserSettings(ctx, userID)
	})
}

// SetNotifications updates the user's notification preference in place.
func (s *TripService) SetNotifications(ctx context.Context, userID int64, pref models.NotificationPreference) error {
	if pref != models.NotifyAll && pref != models.NotifyOff {
		return fmt.Errorf("%w: unknown notification preference %q", ErrInvalidInput, pref)
	}

	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return err
	}
	settings.Notifications = pref

	cctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.store.UpsertUserSettings(cctx, *settings); err != nil {
		slog.Error("UpsertUserSettings failed", "user_id", userID, "error", err)
		return classify(err)
	}
	return nil
}
