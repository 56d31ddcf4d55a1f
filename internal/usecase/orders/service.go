package orders

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/mcardoso/trading-platform/internal/domain"
)

// PlaceOrderInput represents the input for placing an order
type PlaceOrderInput struct {
	UserID   string
	Symbol   string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// OrderService handles the order lifecycle use cases: place, cancel,
// execute, and the order read queries. Each use case is a single
// load → mutate → persist → publish sequence over one order aggregate.
type OrderService struct {
	OrderRepo       domain.OrderRepository
	TransactionRepo domain.TransactionRepository
	Publisher       domain.EventPublisher
}

// NewOrderService creates a new OrderService instance
func NewOrderService(
	orderRepo domain.OrderRepository,
	transactionRepo domain.TransactionRepository,
	publisher domain.EventPublisher,
) *OrderService {
	return &OrderService{
		OrderRepo:       orderRepo,
		TransactionRepo: transactionRepo,
		Publisher:       publisher,
	}
}

// PlaceOrder validates the input, persists a new pending order, and
// publishes an order-placed event. Returns the new order's id.
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (uuid.UUID, error) {
	order, err := domain.NewOrder(input.UserID, input.Symbol, input.Quantity, input.Price)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.OrderRepo.Create(ctx, order); err != nil {
		return uuid.Nil, err
	}

	s.publish(ctx, domain.NewOrderPlacedEvent(order))

	return order.ID(), nil
}

// CancelOrder loads the order, cancels it, persists the update, and
// publishes an order-cancelled event. Fails with KindNotFound if the
// order does not exist and KindInvalidState if it is not pending.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := order.Cancel(); err != nil {
		return err
	}

	if err := s.OrderRepo.Update(ctx, order); err != nil {
		return err
	}

	s.publish(ctx, domain.NewOrderCancelledEvent(order.ID()))

	return nil
}

// ExecuteOrder loads the order, executes it, persists the update,
// appends an order-settlement transaction for quantity × price, and
// publishes an order-executed event.
func (s *OrderService) ExecuteOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := order.Execute(); err != nil {
		return err
	}

	if err := s.OrderRepo.Update(ctx, order); err != nil {
		return err
	}

	settlement, err := domain.NewTransaction(
		order.UserID(),
		orderIDRef(order.ID()),
		domain.TransactionTypeOrderSettlement,
		order.Quantity().Mul(order.Price()),
		domain.TransactionStatusCompleted,
	)
	if err != nil {
		return err
	}
	if err := s.TransactionRepo.Create(ctx, settlement); err != nil {
		return err
	}

	s.publish(ctx, domain.NewOrderExecutedEvent(order))

	return nil
}

// GetOrder retrieves a single order by id.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.OrderRepo.GetByID(ctx, orderID)
}

// GetOrdersByUser retrieves all orders placed by a user.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.OrderRepo.GetByUser(ctx, userID)
}

// publish sends an event best-effort. A publish failure after a
// successful persistence write is logged and never fails the use case.
func (s *OrderService) publish(ctx context.Context, event domain.Event) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s event: %v", event.EventType(), err)
	}
}

func orderIDRef(id uuid.UUID) *uuid.UUID {
	return &id
}
