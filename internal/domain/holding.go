package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Holding represents a single security position inside one portfolio.
// It has no identity outside the portfolio + symbol pair and is only
// mutated through the owning portfolio.
//
// The average price is always the quantity-weighted mean of all cost
// layers added so far; removals decrease quantity only and never change
// the average price.
type Holding struct {
	symbol       string
	quantity     decimal.Decimal
	averagePrice decimal.Decimal
}

// NewHolding creates a position from its first cost layer.
// Returns a KindInvalidArgument error if the symbol is empty or
// quantity/price is not positive. The symbol is trimmed before storage.
func NewHolding(symbol string, quantity, price decimal.Decimal) (*Holding, error) {
	symbol = strings.TrimSpace(symbol)

	if symbol == "" {
		return nil, NewError(KindInvalidArgument, "symbol cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, NewError(KindInvalidArgument, "quantity must be greater than zero")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, NewError(KindInvalidArgument, "price must be greater than zero")
	}

	return &Holding{
		symbol:       symbol,
		quantity:     quantity,
		averagePrice: price,
	}, nil
}

// RehydrateHolding reconstructs a holding from persisted state without validation.
func RehydrateHolding(symbol string, quantity, averagePrice decimal.Decimal) *Holding {
	return &Holding{
		symbol:       symbol,
		quantity:     quantity,
		averagePrice: averagePrice,
	}
}

func (h *Holding) Symbol() string                 { return h.symbol }
func (h *Holding) Quantity() decimal.Decimal      { return h.quantity }
func (h *Holding) AveragePrice() decimal.Decimal  { return h.averagePrice }

// AddQuantity adds a cost layer and recomputes the average price as
// (existingQuantity × existingAvg + quantity × price) / (existingQuantity + quantity).
func (h *Holding) AddQuantity(quantity, price decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return NewError(KindInvalidArgument, "quantity must be greater than zero")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return NewError(KindInvalidArgument, "price must be greater than zero")
	}

	totalCost := h.quantity.Mul(h.averagePrice).Add(quantity.Mul(price))
	h.quantity = h.quantity.Add(quantity)
	h.averagePrice = totalCost.Div(h.quantity)

	return nil
}

// RemoveQuantity decreases the held quantity. The average price is unchanged.
// Returns a KindInsufficientQuantity error if quantity exceeds the position.
func (h *Holding) RemoveQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return NewError(KindInvalidArgument, "quantity must be greater than zero")
	}
	if quantity.GreaterThan(h.quantity) {
		return NewError(KindInsufficientQuantity, "cannot remove %s shares: only %s shares held", quantity, h.quantity)
	}

	h.quantity = h.quantity.Sub(quantity)
	return nil
}

// HasQuantity reports whether the position covers the requested quantity.
// Used by callers for pre-trade checks.
func (h *Holding) HasQuantity(quantity decimal.Decimal) bool {
	return h.quantity.GreaterThanOrEqual(quantity)
}
