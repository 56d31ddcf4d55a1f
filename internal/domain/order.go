package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusExecuted  OrderStatus = "EXECUTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

const (
	// MaxSymbolLength bounds ticker symbols after trimming (matches the persistence schema)
	MaxSymbolLength = 5

	// MaxUserIDLength bounds user ids (matches the persistence schema)
	MaxUserIDLength = 100
)

// Order represents a single buy/sell request with a lifecycle state.
// State machine: PENDING → {EXECUTED, CANCELLED}, both terminal.
// Fields are only mutated through the order's own validated operations;
// quantity and price never change after creation.
type Order struct {
	id        uuid.UUID
	userID    string
	symbol    string
	quantity  decimal.Decimal
	price     decimal.Decimal
	status    OrderStatus
	createdAt time.Time
	version   int
}

// NewOrder creates a pending order with a fresh identity.
// The symbol is trimmed and upper-cased before storage.
// Returns a KindInvalidArgument error for empty/whitespace ids,
// symbols outside 1..MaxSymbolLength, or non-positive quantity/price.
func NewOrder(userID, symbol string, quantity, price decimal.Decimal) (*Order, error) {
	userID = strings.TrimSpace(userID)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if userID == "" {
		return nil, NewError(KindInvalidArgument, "user id cannot be empty")
	}
	if len(userID) > MaxUserIDLength {
		return nil, NewError(KindInvalidArgument, "user id must be at most %d characters", MaxUserIDLength)
	}
	if symbol == "" {
		return nil, NewError(KindInvalidArgument, "symbol cannot be empty")
	}
	if len(symbol) > MaxSymbolLength {
		return nil, NewError(KindInvalidArgument, "symbol must be between 1 and %d characters", MaxSymbolLength)
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, NewError(KindInvalidArgument, "quantity must be greater than zero")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, NewError(KindInvalidArgument, "price must be greater than zero")
	}

	return &Order{
		id:        uuid.New(),
		userID:    userID,
		symbol:    symbol,
		quantity:  quantity,
		price:     price,
		status:    OrderStatusPending,
		createdAt: time.Now().UTC(),
	}, nil
}

// RehydrateOrder reconstructs an order from persisted state.
// It performs no validation; only the persistence layer should call it.
func RehydrateOrder(id uuid.UUID, userID, symbol string, quantity, price decimal.Decimal, status OrderStatus, createdAt time.Time, version int) *Order {
	return &Order{
		id:        id,
		userID:    userID,
		symbol:    symbol,
		quantity:  quantity,
		price:     price,
		status:    status,
		createdAt: createdAt,
		version:   version,
	}
}

func (o *Order) ID() uuid.UUID            { return o.id }
func (o *Order) UserID() string           { return o.userID }
func (o *Order) Symbol() string           { return o.symbol }
func (o *Order) Quantity() decimal.Decimal { return o.quantity }
func (o *Order) Price() decimal.Decimal   { return o.price }
func (o *Order) Status() OrderStatus      { return o.status }
func (o *Order) CreatedAt() time.Time     { return o.createdAt }

// Version is the optimistic-concurrency version of the persisted row.
func (o *Order) Version() int { return o.version }

// Execute transitions the order to EXECUTED.
// Returns a KindInvalidState error unless the order is pending.
func (o *Order) Execute() error {
	if o.status != OrderStatusPending {
		return NewError(KindInvalidState, "cannot execute order in %s status: only pending orders can be executed", o.status)
	}
	o.status = OrderStatusExecuted
	return nil
}

// Cancel transitions the order to CANCELLED.
// Returns a KindInvalidState error unless the order is pending.
func (o *Order) Cancel() error {
	if o.status != OrderStatusPending {
		return NewError(KindInvalidState, "cannot cancel order in %s status: only pending orders can be cancelled", o.status)
	}
	o.status = OrderStatusCancelled
	return nil
}
