package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcardoso/trading-platform/internal/domain"
)

// portfolioRepository implements domain.PortfolioRepository.
// A portfolio and its holdings are always written inside one database
// transaction so the aggregate is persisted all-or-nothing.
type portfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

// GetByUser retrieves the portfolio owned by a user, holdings included
func (r *portfolioRepository) GetByUser(ctx context.Context, userID string) (*domain.Portfolio, error) {
	query := `
		SELECT id, user_id, cash_balance, version
		FROM portfolios
		WHERE user_id = $1
	`

	var (
		id          uuid.UUID
		storedUser  string
		cashBalance string
		version     int
	)

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&id, &storedUser, &cashBalance, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(domain.KindNotFound, "portfolio for user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get portfolio by user: %w", err)
	}

	balance, err := decimal.NewFromString(cashBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cash_balance: %w", err)
	}

	holdings, err := r.loadHoldings(ctx, id)
	if err != nil {
		return nil, err
	}

	return domain.RehydratePortfolio(id, storedUser, balance, holdings, version), nil
}

// Create persists a new portfolio with version 0
func (r *portfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, user_id, cash_balance, version)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		portfolio.ID(),
		portfolio.UserID(),
		portfolio.CashBalance().String(),
		portfolio.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	return nil
}

// Update persists the portfolio and rewrites its holding rows atomically,
// guarded by an optimistic-concurrency check on the version column.
func (r *portfolioRepository) Update(ctx context.Context, portfolio *domain.Portfolio) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	updateQuery := `
		UPDATE portfolios
		SET cash_balance = $2, version = version + 1
		WHERE id = $1 AND version = $3
	`

	result, err := dbTx.ExecContext(ctx, updateQuery,
		portfolio.ID(),
		portfolio.CashBalance().String(),
		portfolio.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.NewError(domain.KindConcurrencyConflict, "portfolio for user %s was modified concurrently", portfolio.UserID())
	}

	// Rewrite the holding rows to mirror the aggregate's holding set.
	if _, err := dbTx.ExecContext(ctx, `DELETE FROM holdings WHERE portfolio_id = $1`, portfolio.ID()); err != nil {
		return fmt.Errorf("failed to clear holdings: %w", err)
	}

	insertHoldingQuery := `
		INSERT INTO holdings (portfolio_id, symbol, quantity, average_price)
		VALUES ($1, $2, $3, $4)
	`

	for _, holding := range portfolio.Holdings() {
		_, err := dbTx.ExecContext(ctx, insertHoldingQuery,
			portfolio.ID(),
			holding.Symbol(),
			holding.Quantity().String(),
			holding.AveragePrice().String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", holding.Symbol(), err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit portfolio update: %w", err)
	}

	return nil
}

func (r *portfolioRepository) loadHoldings(ctx context.Context, portfolioID uuid.UUID) ([]*domain.Holding, error) {
	query := `
		SELECT symbol, quantity, average_price
		FROM holdings
		WHERE portfolio_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		var symbol, quantity, averagePrice string
		if err := rows.Scan(&symbol, &quantity, &averagePrice); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}

		quantityDec, err := decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to parse holding quantity: %w", err)
		}
		averageDec, err := decimal.NewFromString(averagePrice)
		if err != nil {
			return nil, fmt.Errorf("failed to parse average_price: %w", err)
		}

		holdings = append(holdings, domain.RehydrateHolding(symbol, quantityDec, averageDec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}
