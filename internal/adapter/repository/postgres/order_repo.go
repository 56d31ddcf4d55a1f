package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcardoso/trading-platform/internal/domain"
)

// orderRepository implements domain.OrderRepository
type orderRepository struct {
	db *DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// GetByID retrieves an order by its id
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, user_id, symbol, quantity, price, status, created_at, version
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(domain.KindNotFound, "order %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by id: %w", err)
	}

	return order, nil
}

// GetByUser retrieves all orders placed by a user, newest first
func (r *orderRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, symbol, quantity, price, status, created_at, version
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by user: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

// Create persists a new order with version 0
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, user_id, symbol, quantity, price, status, created_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		order.ID(),
		order.UserID(),
		order.Symbol(),
		order.Quantity().String(),
		order.Price().String(),
		string(order.Status()),
		order.CreatedAt(),
		order.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// Update persists the order's status, guarded by an optimistic-concurrency
// check on the version column. A losing concurrent writer gets a
// KindConcurrencyConflict error instead of silently overwriting.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $2, version = version + 1
		WHERE id = $1 AND version = $3
	`

	result, err := r.db.ExecContext(ctx, query, order.ID(), string(order.Status()), order.Version())
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.NewError(domain.KindConcurrencyConflict, "order %s was modified concurrently", order.ID())
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		id        uuid.UUID
		userID    string
		symbol    string
		quantity  string
		price     string
		status    string
		createdAt time.Time
		version   int
	)

	if err := row.Scan(&id, &userID, &symbol, &quantity, &price, &status, &createdAt, &version); err != nil {
		return nil, err
	}

	quantityDec, err := decimal.NewFromString(quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	priceDec, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}

	return domain.RehydrateOrder(id, userID, symbol, quantityDec, priceDec, domain.OrderStatus(status), createdAt, version), nil
}
