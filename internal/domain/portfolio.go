package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Portfolio owns the cash balance and holdings for one user and mediates
// all fund and holding mutations. It is the unit of consistency: the cash
// balance never goes negative, and the holding set contains at most one
// entry per symbol (case-insensitive).
type Portfolio struct {
	id          uuid.UUID
	userID      string
	cashBalance decimal.Decimal
	holdings    []*Holding
	version     int
}

// NewPortfolio creates an empty portfolio for a user with a zero cash balance.
// Returns a KindInvalidArgument error if the user id is empty/whitespace.
func NewPortfolio(userID string) (*Portfolio, error) {
	userID = strings.TrimSpace(userID)

	if userID == "" {
		return nil, NewError(KindInvalidArgument, "user id cannot be empty")
	}
	if len(userID) > MaxUserIDLength {
		return nil, NewError(KindInvalidArgument, "user id must be at most %d characters", MaxUserIDLength)
	}

	return &Portfolio{
		id:          uuid.New(),
		userID:      userID,
		cashBalance: decimal.Zero,
	}, nil
}

// RehydratePortfolio reconstructs a portfolio from persisted state.
// It performs no validation; only the persistence layer should call it.
func RehydratePortfolio(id uuid.UUID, userID string, cashBalance decimal.Decimal, holdings []*Holding, version int) *Portfolio {
	return &Portfolio{
		id:          id,
		userID:      userID,
		cashBalance: cashBalance,
		holdings:    holdings,
		version:     version,
	}
}

func (p *Portfolio) ID() uuid.UUID                  { return p.id }
func (p *Portfolio) UserID() string                 { return p.userID }
func (p *Portfolio) CashBalance() decimal.Decimal   { return p.cashBalance }

// Version is the optimistic-concurrency version of the persisted row.
func (p *Portfolio) Version() int { return p.version }

// Holdings returns a snapshot of the current positions. Mutating the
// returned values does not affect the portfolio.
func (p *Portfolio) Holdings() []Holding {
	out := make([]Holding, 0, len(p.holdings))
	for _, h := range p.holdings {
		out = append(out, *h)
	}
	return out
}

// AddFunds increases the cash balance.
// Returns a KindInvalidArgument error if amount is not positive.
func (p *Portfolio) AddFunds(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewError(KindInvalidArgument, "amount must be greater than zero")
	}

	p.cashBalance = p.cashBalance.Add(amount)
	return nil
}

// Withdraw decreases the cash balance. Withdrawing the exact balance is
// allowed and leaves it at zero; anything beyond fails with
// KindInsufficientFunds and leaves the balance untouched.
func (p *Portfolio) Withdraw(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewError(KindInvalidArgument, "amount must be greater than zero")
	}
	if amount.GreaterThan(p.cashBalance) {
		return NewError(KindInsufficientFunds, "insufficient funds: balance %s, requested %s", p.cashBalance, amount)
	}

	p.cashBalance = p.cashBalance.Sub(amount)
	return nil
}

// AddHolding accumulates quantity into the holding matching the symbol
// (case-insensitive, trimmed), or creates a new holding if none exists.
func (p *Portfolio) AddHolding(symbol string, quantity, price decimal.Decimal) error {
	if existing := p.findHolding(symbol); existing != nil {
		return existing.AddQuantity(quantity, price)
	}

	holding, err := NewHolding(symbol, quantity, price)
	if err != nil {
		return err
	}
	p.holdings = append(p.holdings, holding)
	return nil
}

// RemoveHolding reduces the holding matching the symbol. A holding whose
// quantity reaches exactly zero is removed from the portfolio entirely;
// a zero-quantity holding is never observable.
// Returns a KindNotFound error if no holding matches the symbol.
func (p *Portfolio) RemoveHolding(symbol string, quantity decimal.Decimal) error {
	existing := p.findHolding(symbol)
	if existing == nil {
		return NewError(KindNotFound, "no holding found for symbol %q", symbol)
	}

	if err := existing.RemoveQuantity(quantity); err != nil {
		return err
	}

	if existing.Quantity().IsZero() {
		p.dropHolding(existing)
	}
	return nil
}

func (p *Portfolio) findHolding(symbol string) *Holding {
	symbol = strings.TrimSpace(symbol)
	for _, h := range p.holdings {
		if strings.EqualFold(h.symbol, symbol) {
			return h
		}
	}
	return nil
}

func (p *Portfolio) dropHolding(target *Holding) {
	for i, h := range p.holdings {
		if h == target {
			p.holdings = append(p.holdings[:i], p.holdings[i+1:]...)
			return
		}
	}
}
