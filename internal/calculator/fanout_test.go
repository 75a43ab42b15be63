package calculator

import (
	"math"
	"testing"
)

func TestFanOut(t *testing.T) {
	tests := []struct {
		name           string
		total          float64
		payerID        int64
		participantIDs []int64
		validateFunc   func(t *testing.T, shares []Share)
	}{
		{
			name:           "three people divide by all",
			total:          2000.0,
			payerID:        1,
			participantIDs: []int64{1, 2, 3},
			validateFunc: func(t *testing.T, shares []Share) {
				// 2000 / 3 each; the payer's own 666.67 is absorbed
				if len(shares) != 2 {
					t.Fatalf("shares count = %d, want 2", len(shares))
				}
				for _, s := range shares {
					if math.Abs(s.Amount-2000.0/3) > 0.01 {
						t.Errorf("share for %d = %v, want %v", s.DebtorID, s.Amount, 2000.0/3)
					}
					if s.DebtorID == 1 {
						t.Error("payer must not owe themselves")
					}
				}
			},
		},
		{
			name:           "two people split evenly",
			total:          100.0,
			payerID:        10,
			participantIDs: []int64{10, 20},
			validateFunc: func(t *testing.T, shares []Share) {
				if len(shares) != 1 {
					t.Fatalf("shares count = %d, want 1", len(shares))
				}
				if shares[0].DebtorID != 20 {
					t.Errorf("debtor = %d, want 20", shares[0].DebtorID)
				}
				if math.Abs(shares[0].Amount-50.0) > 0.01 {
					t.Errorf("share = %v, want 50.0", shares[0].Amount)
				}
			},
		},
		{
			name:           "shares sum to total minus payer share",
			total:          999.99,
			payerID:        7,
			participantIDs: []int64{5, 6, 7, 8, 9},
			validateFunc: func(t *testing.T, shares []Share) {
				var sum float64
				for _, s := range shares {
					sum += s.Amount
				}
				want := 999.99 - 999.99/5
				if math.Abs(sum-want) > 0.01 {
					t.Errorf("sum of shares = %v, want %v", sum, want)
				}
			},
		},
		{
			name:           "debtor order follows participant order",
			total:          300.0,
			payerID:        2,
			participantIDs: []int64{3, 2, 1},
			validateFunc: func(t *testing.T, shares []Share) {
				if len(shares) != 2 || shares[0].DebtorID != 3 || shares[1].DebtorID != 1 {
					t.Errorf("debtor order = %v, want [3 1]", shares)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := FanOut(tt.total, tt.payerID, tt.participantIDs)
			tt.validateFunc(t, shares)
		})
	}
}

func TestPerPersonShare(t *testing.T) {
	if got := PerPersonShare(90.0, 3); math.Abs(got-30.0) > 0.01 {
		t.Errorf("PerPersonShare(90, 3) = %v, want 30.0", got)
	}
	if got := PerPersonShare(100.0, 3); math.Abs(got-100.0/3) > 0.01 {
		t.Errorf("PerPersonShare(100, 3) = %v, want %v", got, 100.0/3)
	}
}
