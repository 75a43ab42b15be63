// Package models defines the core domain records for TripSplit.
//
// # Model overview
//
//   - Trip: one expense-sharing context per group chat, owning its
//     participant list
//   - Participant: a known user inside exactly one trip
//   - DebtGroup: one logged shared-expense event
//   - Debt: one obligation from a debtor to a creditor, fanned out from a
//     DebtGroup at creation time
//   - UserSettings: per-user notification preference and language
//   - UserTripLink: the trips a user is known in, plus the active one used
//     to resolve private-chat commands
//
// # Design principles
//
// 1. **Typed records**: every field is declared up front; validation happens
// at the storage boundary, not defensively at read sites.
// 2. **Telegram-native ids**: users and chats keep their int64 Telegram ids;
// DebtGroups and Debts get UUID strings assigned by the store.
// 3. **Currency per event**: each DebtGroup carries its own currency tag.
// Balances in different currencies are never cross-converted.
// 4. **Immutable events**: a DebtGroup is never edited after creation except
// for its soft-delete flag; corrections are new events.
package models
