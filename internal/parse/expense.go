// Package parse extracts a shared expense from a single natural-language
// line like "2000 THB @alice @bob taxi to the airport".
//
// The rules are deliberately explicit because this is the most bug-prone
// surface of the bot: tokenization is ambiguous and a description word can
// coincidentally match a participant's first name. The resolution order is:
//
//  1. first token: positive decimal amount (comma accepted as separator)
//  2. optional second token: explicit currency code
//  3. "@handle" tokens resolve against participant handles; bare tokens
//     resolve against display names (both case-insensitive exact matches,
//     trailing punctuation stripped)
//  4. the author is always part of the expense, mentioned or not
//  5. everything unresolved, in original order, becomes the description
package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxAmount is the sanity bound on a single expense.
const MaxAmount = 10_000_000

// trailingPunct is stripped from the end of a token before mention matching.
const trailingPunct = ".,!?;:"

// Reason identifies why a line failed to parse.
type Reason string

const (
	// ReasonInvalidAmount: the first token is not a positive decimal
	// number within bounds.
	ReasonInvalidAmount Reason = "invalid_amount"

	// ReasonInsufficientParticipants: fewer than two distinct people are
	// involved after the author is implicitly added.
	ReasonInsufficientParticipants Reason = "insufficient_participants"
)

// Error is a parse failure with a corrective hint suitable for showing to
// the user.
type Error struct {
	Reason Reason
	Hint   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error (%s): %s", e.Reason, e.Hint)
}

// Participant is the minimal view of a trip member the parser matches
// mentions against.
type Participant struct {
	ID          int64
	Handle      string
	DisplayName string
}

// Result is a successfully parsed expense line.
type Result struct {
	Amount float64

	// Currency is the explicit code from the line, or the default.
	Currency string

	// ParticipantIDs is the mentioned set plus the author, distinct,
	// first-seen order.
	ParticipantIDs []int64

	// Description is the leftover text, "general expense" when empty.
	Description string
}

// ExpenseLine parses one expense entry. authorID is the message author,
// always included as a participant; known is the trip's participant list;
// currencies is the configured currency set.
func ExpenseLine(text string, authorID int64, known []Participant, defaultCurrency string, currencies []string) (*Result, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, &Error{Reason: ReasonInvalidAmount, Hint: "start the message with an amount, e.g. 2000 @alex taxi"}
	}

	amount, err := parseAmount(tokens[0])
	if err != nil {
		return nil, err
	}
	rest := tokens[1:]

	currency := strings.ToUpper(defaultCurrency)
	if len(rest) > 0 {
		if code, ok := matchCurrency(rest[0], currencies); ok {
			currency = code
			rest = rest[1:]
		}
	}

	var (
		ids      []int64
		seen     = make(map[int64]bool)
		leftover []string
	)
	addID := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, token := range rest {
		if id, ok := resolveMention(token, known); ok {
			addID(id)
			continue
		}
		leftover = append(leftover, token)
	}

	// The author is the payer by default and always part of the expense.
	addID(authorID)

	if len(ids) < 2 {
		return nil, &Error{
			Reason: ReasonInsufficientParticipants,
			Hint:   "mention at least one other participant, e.g. 2000 @alex taxi",
		}
	}

	description := strings.Join(leftover, " ")
	if description == "" {
		description = "general expense"
	}

	return &Result{
		Amount:         amount,
		Currency:       currency,
		ParticipantIDs: ids,
		Description:    description,
	}, nil
}

// parseAmount accepts a positive decimal with either '.' or ',' as the
// decimal separator, bounded by MaxAmount.
func parseAmount(token string) (float64, error) {
	normalized := strings.ReplaceAll(token, ",", ".")
	amount, err := strconv.ParseFloat(normalized, 64)
	// ParseFloat also accepts "nan" and "inf"; neither is an amount.
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, &Error{Reason: ReasonInvalidAmount, Hint: "enter a valid amount, e.g. 1250 or 1250.50"}
	}
	if amount <= 0 {
		return 0, &Error{Reason: ReasonInvalidAmount, Hint: "the amount must be greater than zero"}
	}
	if amount > MaxAmount {
		return 0, &Error{Reason: ReasonInvalidAmount, Hint: "the amount is too large (max 10,000,000)"}
	}
	return amount, nil
}

func matchCurrency(token string, currencies []string) (string, bool) {
	for _, code := range currencies {
		if strings.EqualFold(token, code) {
			return strings.ToUpper(code), true
		}
	}
	return "", false
}

// resolveMention maps one token to a participant id. "@name" tokens match
// handles only; bare tokens match display names only. Both comparisons are
// case-insensitive exact matches after trailing punctuation is stripped.
func resolveMention(token string, known []Participant) (int64, bool) {
	if handle, ok := strings.CutPrefix(token, "@"); ok {
		handle = strings.ToLower(strings.TrimRight(handle, trailingPunct))
		if handle == "" {
			return 0, false
		}
		for _, p := range known {
			if p.Handle != "" && strings.ToLower(p.Handle) == handle {
				return p.ID, true
			}
		}
		return 0, false
	}

	name := strings.ToLower(strings.TrimRight(token, trailingPunct))
	for _, p := range known {
		if p.DisplayName != "" && strings.ToLower(p.DisplayName) == name {
			return p.ID, true
		}
	}
	return 0, false
}
