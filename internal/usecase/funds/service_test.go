package funds

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mcardoso/trading-platform/internal/domain"
)

// MockPortfolioRepository is a mock implementation of PortfolioRepository for testing
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) GetByUser(ctx context.Context, userID string) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioRepository) Update(ctx context.Context, portfolio *domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func notFound(userID string) *domain.Error {
	return domain.NewError(domain.KindNotFound, "portfolio for user %s not found", userID)
}

func TestDeposit_CreatesPortfolioLazily(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	transactionRepo := new(MockTransactionRepository)
	publisher := new(MockEventPublisher)
	service := NewFundsService(portfolioRepo, transactionRepo, publisher)

	portfolioRepo.On("GetByUser", ctx, "u1").Return(nil, notFound("u1"))
	portfolioRepo.On("Create", ctx, mock.AnythingOfType("*domain.Portfolio")).Return(nil)
	portfolioRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Portfolio) bool {
		return p.UserID() == "u1" && p.CashBalance().Equal(decimal.NewFromInt(1000)) && len(p.Holdings()) == 0
	})).Return(nil)
	transactionRepo.On("Create", ctx, mock.MatchedBy(func(tx *domain.Transaction) bool {
		return tx.Type() == domain.TransactionTypeDeposit && tx.Amount().Equal(decimal.NewFromInt(1000))
	})).Return(nil)
	publisher.On("Publish", ctx, mock.AnythingOfType("domain.FundsDepositedEvent")).Return(nil)

	require.NoError(t, service.Deposit(ctx, "u1", decimal.NewFromInt(1000)))

	portfolioRepo.AssertExpectations(t)
	transactionRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDeposit_ExistingPortfolio(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	transactionRepo := new(MockTransactionRepository)
	publisher := new(MockEventPublisher)
	service := NewFundsService(portfolioRepo, transactionRepo, publisher)

	portfolio, err := domain.NewPortfolio("u1")
	require.NoError(t, err)
	require.NoError(t, portfolio.AddFunds(decimal.NewFromInt(500)))

	portfolioRepo.On("GetByUser", ctx, "u1").Return(portfolio, nil)
	portfolioRepo.On("Update", ctx, portfolio).Return(nil)
	transactionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	publisher.On("Publish", ctx, mock.AnythingOfType("domain.FundsDepositedEvent")).Return(nil)

	require.NoError(t, service.Deposit(ctx, "u1", decimal.NewFromInt(250)))

	assert.True(t, portfolio.CashBalance().Equal(decimal.NewFromInt(750)))
	portfolioRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeposit_InvalidAmountDoesNotTouchStorage(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	service := NewFundsService(portfolioRepo, new(MockTransactionRepository), new(MockEventPublisher))

	err := service.Deposit(ctx, "u1", decimal.Zero)

	assert.True(t, domain.IsKind(err, domain.KindInvalidArgument))
	portfolioRepo.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
	portfolioRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeposit_PublishFailureDoesNotFailUseCase(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	transactionRepo := new(MockTransactionRepository)
	publisher := new(MockEventPublisher)
	service := NewFundsService(portfolioRepo, transactionRepo, publisher)

	portfolio, err := domain.NewPortfolio("u1")
	require.NoError(t, err)

	portfolioRepo.On("GetByUser", ctx, "u1").Return(portfolio, nil)
	portfolioRepo.On("Update", ctx, portfolio).Return(nil)
	transactionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	publisher.On("Publish", ctx, mock.AnythingOfType("domain.FundsDepositedEvent")).
		Return(domain.NewError(domain.KindUnavailable, "broker unreachable"))

	assert.NoError(t, service.Deposit(ctx, "u1", decimal.NewFromInt(100)))
}

func TestWithdraw_Success(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	transactionRepo := new(MockTransactionRepository)
	service := NewFundsService(portfolioRepo, transactionRepo, new(MockEventPublisher))

	portfolio, err := domain.NewPortfolio("u1")
	require.NoError(t, err)
	require.NoError(t, portfolio.AddFunds(decimal.NewFromInt(1000)))

	portfolioRepo.On("GetByUser", ctx, "u1").Return(portfolio, nil)
	portfolioRepo.On("Update", ctx, portfolio).Return(nil)
	transactionRepo.On("Create", ctx, mock.MatchedBy(func(tx *domain.Transaction) bool {
		return tx.Type() == domain.TransactionTypeWithdrawal && tx.Amount().Equal(decimal.NewFromInt(400))
	})).Return(nil)

	require.NoError(t, service.Withdraw(ctx, "u1", decimal.NewFromInt(400)))

	assert.True(t, portfolio.CashBalance().Equal(decimal.NewFromInt(600)))
	transactionRepo.AssertExpectations(t)
}

func TestWithdraw_NoPortfolio(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	service := NewFundsService(portfolioRepo, new(MockTransactionRepository), new(MockEventPublisher))

	portfolioRepo.On("GetByUser", ctx, "u1").Return(nil, notFound("u1"))

	err := service.Withdraw(ctx, "u1", decimal.NewFromInt(100))

	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	portfolioRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	transactionRepo := new(MockTransactionRepository)
	service := NewFundsService(portfolioRepo, transactionRepo, new(MockEventPublisher))

	portfolio, err := domain.NewPortfolio("u1")
	require.NoError(t, err)
	require.NoError(t, portfolio.AddFunds(decimal.NewFromInt(100)))

	portfolioRepo.On("GetByUser", ctx, "u1").Return(portfolio, nil)

	err = service.Withdraw(ctx, "u1", decimal.NewFromInt(150))

	assert.True(t, domain.IsKind(err, domain.KindInsufficientFunds))
	assert.True(t, portfolio.CashBalance().Equal(decimal.NewFromInt(100)))
	portfolioRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWithdraw_ConcurrencyConflictPropagates(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	service := NewFundsService(portfolioRepo, new(MockTransactionRepository), new(MockEventPublisher))

	portfolio, err := domain.NewPortfolio("u1")
	require.NoError(t, err)
	require.NoError(t, portfolio.AddFunds(decimal.NewFromInt(100)))

	portfolioRepo.On("GetByUser", ctx, "u1").Return(portfolio, nil)
	portfolioRepo.On("Update", ctx, portfolio).
		Return(domain.NewError(domain.KindConcurrencyConflict, "portfolio was modified concurrently"))

	err = service.Withdraw(ctx, "u1", decimal.NewFromInt(50))

	assert.True(t, domain.IsKind(err, domain.KindConcurrencyConflict))
}

func TestGetPortfolio(t *testing.T) {
	ctx := context.Background()
	portfolioRepo := new(MockPortfolioRepository)
	service := NewFundsService(portfolioRepo, new(MockTransactionRepository), new(MockEventPublisher))

	portfolio, err := domain.NewPortfolio("u1")
	require.NoError(t, err)

	portfolioRepo.On("GetByUser", ctx, "u1").Return(portfolio, nil)

	got, err := service.GetPortfolio(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, portfolio.ID(), got.ID())
}
