package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// quantityGen draws a positive quantity with four fractional digits,
// matching the precision of the persistence schema.
func quantityGen(t *rapid.T, label string) decimal.Decimal {
	return decimal.New(rapid.Int64Range(1, 1_000_000_0000).Draw(t, label), -4)
}

// priceGen draws a positive price with four fractional digits.
func priceGen(t *rapid.T, label string) decimal.Decimal {
	return decimal.New(rapid.Int64Range(1, 100_000_0000).Draw(t, label), -4)
}

func TestProperty_WeightedAverageCost(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q1 := quantityGen(t, "q1")
		p1 := priceGen(t, "p1")
		q2 := quantityGen(t, "q2")
		p2 := priceGen(t, "p2")

		holding, err := NewHolding("AAPL", q1, p1)
		if err != nil {
			t.Fatalf("NewHolding(%s, %s) failed: %v", q1, p1, err)
		}
		if err := holding.AddQuantity(q2, p2); err != nil {
			t.Fatalf("AddQuantity(%s, %s) failed: %v", q2, p2, err)
		}

		wantQuantity := q1.Add(q2)
		wantAverage := q1.Mul(p1).Add(q2.Mul(p2)).Div(wantQuantity)

		if !holding.Quantity().Equal(wantQuantity) {
			t.Fatalf("quantity: got %s, want %s", holding.Quantity(), wantQuantity)
		}
		if !holding.AveragePrice().Equal(wantAverage) {
			t.Fatalf("average price: got %s, want (q1p1+q2p2)/(q1+q2) = %s", holding.AveragePrice(), wantAverage)
		}
	})
}

func TestProperty_RemovalsNeverChangeAveragePrice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := quantityGen(t, "q")
		p := priceGen(t, "p")

		holding, err := NewHolding("AAPL", q, p)
		if err != nil {
			t.Fatalf("NewHolding(%s, %s) failed: %v", q, p, err)
		}
		averageBefore := holding.AveragePrice()

		// Remove an arbitrary sequence of slices, never exceeding the position.
		steps := rapid.IntRange(1, 5).Draw(t, "steps")
		for i := 0; i < steps && holding.Quantity().IsPositive(); i++ {
			remaining := holding.Quantity()
			slice := decimal.New(rapid.Int64Range(1, remaining.Shift(4).IntPart()).Draw(t, "slice"), -4)
			if err := holding.RemoveQuantity(slice); err != nil {
				t.Fatalf("RemoveQuantity(%s) with %s held failed: %v", slice, remaining, err)
			}
		}

		if !holding.AveragePrice().Equal(averageBefore) {
			t.Fatalf("average price changed on removal: %s → %s", averageBefore, holding.AveragePrice())
		}
		if holding.Quantity().IsNegative() {
			t.Fatalf("quantity went negative: %s", holding.Quantity())
		}
	})
}

func TestProperty_WithdrawNeverLeavesNegativeBalance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		portfolio, err := NewPortfolio("u1")
		if err != nil {
			t.Fatalf("NewPortfolio failed: %v", err)
		}

		// Interleave deposits and withdrawals of arbitrary amounts. Failed
		// withdrawals are expected; a negative balance never is.
		ops := rapid.IntRange(1, 20).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			amount := decimal.New(rapid.Int64Range(1, 10_000_0000).Draw(t, "amount"), -4)
			if rapid.Bool().Draw(t, "deposit") {
				if err := portfolio.AddFunds(amount); err != nil {
					t.Fatalf("AddFunds(%s) failed: %v", amount, err)
				}
				continue
			}
			if err := portfolio.Withdraw(amount); err != nil && !IsKind(err, KindInsufficientFunds) {
				t.Fatalf("Withdraw(%s) failed with unexpected kind: %v", amount, err)
			}
		}

		if portfolio.CashBalance().IsNegative() {
			t.Fatalf("cash balance went negative: %s", portfolio.CashBalance())
		}
	})
}
