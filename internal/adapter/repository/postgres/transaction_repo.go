package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcardoso/trading-platform/internal/domain"
)

// transactionRepository implements domain.TransactionRepository.
// The transactions table is append-only; there is no update path.
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a transaction record
func (r *transactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, order_id, type, amount, timestamp, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var orderID any
	if transaction.OrderID() != nil {
		orderID = *transaction.OrderID()
	}

	_, err := r.db.ExecContext(ctx, query,
		transaction.ID(),
		transaction.UserID(),
		orderID,
		string(transaction.Type()),
		transaction.Amount().String(),
		transaction.Timestamp(),
		string(transaction.Status()),
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByUser retrieves a user's transaction records, newest first
func (r *transactionRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, order_id, type, amount, timestamp, status
		FROM transactions
		WHERE user_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions by user: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var (
			id         uuid.UUID
			storedUser string
			orderID    uuid.NullUUID
			txType     string
			amount     string
			timestamp  time.Time
			status     string
		)

		if err := rows.Scan(&id, &storedUser, &orderID, &txType, &amount, &timestamp, &status); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amountDec, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}

		var orderRef *uuid.UUID
		if orderID.Valid {
			ref := orderID.UUID
			orderRef = &ref
		}

		transactions = append(transactions, domain.RehydrateTransaction(
			id, storedUser, orderRef,
			domain.TransactionType(txType), amountDec, timestamp,
			domain.TransactionStatus(status),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
