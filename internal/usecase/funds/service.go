package funds

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"github.com/mcardoso/trading-platform/internal/domain"
)

// FundsService handles the cash ledger use cases: deposit, withdraw, and
// the portfolio read query. Each use case is a single load → mutate →
// persist sequence over one portfolio aggregate; the storage layer
// detects concurrent writers via the portfolio's version.
type FundsService struct {
	PortfolioRepo   domain.PortfolioRepository
	TransactionRepo domain.TransactionRepository
	Publisher       domain.EventPublisher
}

// NewFundsService creates a new FundsService instance
func NewFundsService(
	portfolioRepo domain.PortfolioRepository,
	transactionRepo domain.TransactionRepository,
	publisher domain.EventPublisher,
) *FundsService {
	return &FundsService{
		PortfolioRepo:   portfolioRepo,
		TransactionRepo: transactionRepo,
		Publisher:       publisher,
	}
}

// Deposit adds funds to the user's portfolio, creating the portfolio
// lazily on first deposit. Appends a completed deposit transaction and
// publishes a funds-deposited event.
func (s *FundsService) Deposit(ctx context.Context, userID string, amount decimal.Decimal) error {
	// Validate upfront so an invalid amount never creates a portfolio.
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.NewError(domain.KindInvalidArgument, "amount must be greater than zero")
	}

	portfolio, err := s.PortfolioRepo.GetByUser(ctx, userID)
	switch {
	case domain.IsKind(err, domain.KindNotFound):
		portfolio, err = domain.NewPortfolio(userID)
		if err != nil {
			return err
		}
		if err := s.PortfolioRepo.Create(ctx, portfolio); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	if err := portfolio.AddFunds(amount); err != nil {
		return err
	}
	if err := s.PortfolioRepo.Update(ctx, portfolio); err != nil {
		return err
	}

	if err := s.recordTransaction(ctx, portfolio.UserID(), domain.TransactionTypeDeposit, amount); err != nil {
		return err
	}

	s.publish(ctx, domain.NewFundsDepositedEvent(portfolio.UserID(), amount))

	return nil
}

// Withdraw removes funds from the user's portfolio and appends a
// completed withdrawal transaction. Fails with KindNotFound if the user
// has no portfolio and KindInsufficientFunds if the balance is short.
func (s *FundsService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) error {
	portfolio, err := s.PortfolioRepo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := portfolio.Withdraw(amount); err != nil {
		return err
	}
	if err := s.PortfolioRepo.Update(ctx, portfolio); err != nil {
		return err
	}

	return s.recordTransaction(ctx, portfolio.UserID(), domain.TransactionTypeWithdrawal, amount)
}

// GetPortfolio retrieves the user's portfolio with its holdings.
func (s *FundsService) GetPortfolio(ctx context.Context, userID string) (*domain.Portfolio, error) {
	return s.PortfolioRepo.GetByUser(ctx, userID)
}

// GetTransactions retrieves the user's ledger records, newest first.
func (s *FundsService) GetTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return s.TransactionRepo.GetByUser(ctx, userID)
}

func (s *FundsService) recordTransaction(ctx context.Context, userID string, txType domain.TransactionType, amount decimal.Decimal) error {
	transaction, err := domain.NewTransaction(userID, nil, txType, amount, domain.TransactionStatusCompleted)
	if err != nil {
		return err
	}
	return s.TransactionRepo.Create(ctx, transaction)
}

// publish sends an event best-effort; failures are logged, never returned.
func (s *FundsService) publish(ctx context.Context, event domain.Event) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s event: %v", event.EventType(), err)
	}
}
