package calculator

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		obligations []Obligation
		want        []SummaryLine
	}{
		{
			name: "same pair accumulates",
			obligations: []Obligation{
				{DebtorID: 1, CreditorID: 2, Amount: 10.0, Currency: "EUR"},
				{DebtorID: 1, CreditorID: 2, Amount: 5.0, Currency: "EUR"},
			},
			want: []SummaryLine{
				{DebtorID: 1, CreditorID: 2, Total: 15.0, Currency: "EUR"},
			},
		},
		{
			name: "opposing pairs are not netted",
			obligations: []Obligation{
				{DebtorID: 1, CreditorID: 2, Amount: 10.0, Currency: "EUR"},
				{DebtorID: 2, CreditorID: 1, Amount: 4.0, Currency: "EUR"},
			},
			want: []SummaryLine{
				{DebtorID: 1, CreditorID: 2, Total: 10.0, Currency: "EUR"},
				{DebtorID: 2, CreditorID: 1, Total: 4.0, Currency: "EUR"},
			},
		},
		{
			name: "same pair in different currencies stays split",
			obligations: []Obligation{
				{DebtorID: 1, CreditorID: 2, Amount: 100.0, Currency: "EUR"},
				{DebtorID: 1, CreditorID: 2, Amount: 3000.0, Currency: "THB"},
			},
			want: []SummaryLine{
				{DebtorID: 1, CreditorID: 2, Total: 100.0, Currency: "EUR"},
				{DebtorID: 1, CreditorID: 2, Total: 3000.0, Currency: "THB"},
			},
		},
		{
			name: "lines keep first-seen order",
			obligations: []Obligation{
				{DebtorID: 3, CreditorID: 1, Amount: 7.0, Currency: "USD"},
				{DebtorID: 2, CreditorID: 1, Amount: 8.0, Currency: "USD"},
				{DebtorID: 3, CreditorID: 1, Amount: 1.0, Currency: "USD"},
			},
			want: []SummaryLine{
				{DebtorID: 3, CreditorID: 1, Total: 8.0, Currency: "USD"},
				{DebtorID: 2, CreditorID: 1, Total: 8.0, Currency: "USD"},
			},
		},
		{
			name:        "empty ledger",
			obligations: nil,
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.obligations)
			if len(got) != len(tt.want) {
				t.Fatalf("lines = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i, line := range got {
				want := tt.want[i]
				if line.DebtorID != want.DebtorID || line.CreditorID != want.CreditorID || line.Currency != want.Currency {
					t.Errorf("line %d = %+v, want %+v", i, line, want)
				}
				if math.Abs(line.Total-want.Total) > 0.01 {
					t.Errorf("line %d total = %v, want %v", i, line.Total, want.Total)
				}
			}
		})
	}
}
