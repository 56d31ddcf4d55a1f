package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a domain event emitted after a successful state change.
// Events are published best-effort and at-least-once: a publish failure
// after a successful persistence write never rolls back the write.
type Event interface {
	// EventType is the wire name of the event, carried in the
	// event-type message header.
	EventType() string

	// Key is the partition key: the identity of the aggregate the
	// event belongs to, so events for one aggregate stay ordered.
	Key() string
}

// OrderPlacedEvent is emitted when a new order is accepted.
type OrderPlacedEvent struct {
	OrderID    uuid.UUID       `json:"orderId"`
	UserID     string          `json:"userId"`
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func (e OrderPlacedEvent) EventType() string { return "order-placed" }
func (e OrderPlacedEvent) Key() string       { return e.OrderID.String() }

// NewOrderPlacedEvent captures the placed order's immutable attributes.
func NewOrderPlacedEvent(order *Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:    order.ID(),
		UserID:     order.UserID(),
		Symbol:     order.Symbol(),
		Quantity:   order.Quantity(),
		Price:      order.Price(),
		OccurredAt: time.Now().UTC(),
	}
}

// OrderCancelledEvent is emitted when a pending order is cancelled.
type OrderCancelledEvent struct {
	OrderID    uuid.UUID `json:"orderId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e OrderCancelledEvent) EventType() string { return "order-cancelled" }
func (e OrderCancelledEvent) Key() string       { return e.OrderID.String() }

// NewOrderCancelledEvent creates the cancellation event for an order.
func NewOrderCancelledEvent(orderID uuid.UUID) OrderCancelledEvent {
	return OrderCancelledEvent{
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderExecutedEvent is emitted when a pending order is executed.
type OrderExecutedEvent struct {
	OrderID    uuid.UUID       `json:"orderId"`
	UserID     string          `json:"userId"`
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func (e OrderExecutedEvent) EventType() string { return "order-executed" }
func (e OrderExecutedEvent) Key() string       { return e.OrderID.String() }

// NewOrderExecutedEvent captures the executed order's attributes.
func NewOrderExecutedEvent(order *Order) OrderExecutedEvent {
	return OrderExecutedEvent{
		OrderID:    order.ID(),
		UserID:     order.UserID(),
		Symbol:     order.Symbol(),
		Quantity:   order.Quantity(),
		Price:      order.Price(),
		OccurredAt: time.Now().UTC(),
	}
}

// FundsDepositedEvent is emitted after a successful deposit.
type FundsDepositedEvent struct {
	UserID     string          `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func (e FundsDepositedEvent) EventType() string { return "funds-deposited" }
func (e FundsDepositedEvent) Key() string       { return e.UserID }

// NewFundsDepositedEvent creates the deposit event for a user.
func NewFundsDepositedEvent(userID string, amount decimal.Decimal) FundsDepositedEvent {
	return FundsDepositedEvent{
		UserID:     userID,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}
