package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger movement
type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal      TransactionType = "WITHDRAWAL"
	TransactionTypeOrderSettlement TransactionType = "ORDER_SETTLEMENT"
)

// TransactionStatus represents the settlement state of a transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an immutable, append-only record of a cash or
// order-related ledger movement. It is not owned by Portfolio or Order;
// the optional order id is a weak reference for correlation only.
type Transaction struct {
	id        uuid.UUID
	userID    string
	orderID   *uuid.UUID
	txType    TransactionType
	amount    decimal.Decimal
	timestamp time.Time
	status    TransactionStatus
}

// NewTransaction creates a ledger record with a fresh identity and the
// current time. Returns a KindInvalidArgument error for a negative amount.
func NewTransaction(userID string, orderID *uuid.UUID, txType TransactionType, amount decimal.Decimal, status TransactionStatus) (*Transaction, error) {
	if amount.IsNegative() {
		return nil, NewError(KindInvalidArgument, "amount cannot be negative")
	}

	return &Transaction{
		id:        uuid.New(),
		userID:    userID,
		orderID:   orderID,
		txType:    txType,
		amount:    amount,
		timestamp: time.Now().UTC(),
		status:    status,
	}, nil
}

// RehydrateTransaction reconstructs a transaction from persisted state without validation.
func RehydrateTransaction(id uuid.UUID, userID string, orderID *uuid.UUID, txType TransactionType, amount decimal.Decimal, timestamp time.Time, status TransactionStatus) *Transaction {
	return &Transaction{
		id:        id,
		userID:    userID,
		orderID:   orderID,
		txType:    txType,
		amount:    amount,
		timestamp: timestamp,
		status:    status,
	}
}

func (t *Transaction) ID() uuid.UUID             { return t.id }
func (t *Transaction) UserID() string            { return t.userID }
func (t *Transaction) Type() TransactionType     { return t.txType }
func (t *Transaction) Amount() decimal.Decimal   { return t.amount }
func (t *Transaction) Timestamp() time.Time      { return t.timestamp }
func (t *Transaction) Status() TransactionStatus { return t.status }

// OrderID returns the correlated order id, or nil for cash-only movements.
func (t *Transaction) OrderID() *uuid.UUID { return t.orderID }
