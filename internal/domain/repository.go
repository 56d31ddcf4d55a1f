package domain

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence operations.
// Update must perform an optimistic-concurrency check on the order's
// version and return a KindConcurrencyConflict error when the check fails,
// so a losing concurrent writer never silently overwrites.
type OrderRepository interface {
	// GetByID retrieves an order by its id.
	// Returns a KindNotFound error if no such order exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// GetByUser retrieves all orders placed by a user, newest first.
	GetByUser(ctx context.Context, userID string) ([]*Order, error)

	// Create persists a new order.
	Create(ctx context.Context, order *Order) error

	// Update persists the order's current state.
	Update(ctx context.Context, order *Order) error
}

// PortfolioRepository defines the interface for portfolio persistence
// operations. A portfolio and its holdings are written as a unit, and the
// same optimistic-concurrency contract as OrderRepository.Update applies.
type PortfolioRepository interface {
	// GetByUser retrieves the portfolio owned by a user, holdings included.
	// Returns a KindNotFound error if the user has no portfolio.
	GetByUser(ctx context.Context, userID string) (*Portfolio, error)

	// Create persists a new portfolio.
	Create(ctx context.Context, portfolio *Portfolio) error

	// Update persists the portfolio and its holdings atomically.
	Update(ctx context.Context, portfolio *Portfolio) error
}

// TransactionRepository defines the interface for the append-only
// transaction ledger. Records are created once and never mutated.
type TransactionRepository interface {
	// Create appends a transaction record.
	Create(ctx context.Context, transaction *Transaction) error

	// GetByUser retrieves a user's transaction records, newest first.
	GetByUser(ctx context.Context, userID string) ([]*Transaction, error)
}

// EventPublisher publishes domain events to external consumers.
// Delivery guarantees are the publisher's responsibility; use cases treat
// publishing as fire-and-forget and never fail on a publish error.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
