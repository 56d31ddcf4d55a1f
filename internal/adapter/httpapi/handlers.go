package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/mcardoso/trading-platform/internal/domain"
	"github.com/mcardoso/trading-platform/internal/usecase/orders"
)

// OrderService is the order-side use-case surface the handlers call.
type OrderService interface {
	PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (uuid.UUID, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) error
	ExecuteOrder(ctx context.Context, orderID uuid.UUID) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

// FundsService is the cash-ledger use-case surface the handlers call.
type FundsService interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) error
	GetPortfolio(ctx context.Context, userID string) (*domain.Portfolio, error)
	GetTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	orders OrderService
	funds  FundsService
}

// NewHandler creates a new Handler
func NewHandler(orderService OrderService, fundsService FundsService) *Handler {
	return &Handler{
		orders: orderService,
		funds:  fundsService,
	}
}

type placeOrderRequest struct {
	UserID   string          `json:"userId"`
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type amountRequest struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

type orderResponse struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type holdingResponse struct {
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

type transactionResponse struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	OrderID   *uuid.UUID      `json:"orderId,omitempty"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	Status    string          `json:"status"`
}

type portfolioResponse struct {
	ID          uuid.UUID         `json:"id"`
	UserID      string            `json:"userId"`
	CashBalance decimal.Decimal   `json:"cashBalance"`
	Holdings    []holdingResponse `json:"holdings"`
}

// PlaceOrder handles POST /api/orders
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID, err := h.orders.PlaceOrder(r.Context(), orders.PlaceOrderInput{
		UserID:   req.UserID,
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"orderId": orderID.String()})
}

// GetOrder handles GET /api/orders/{orderId}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

// GetOrders handles GET /api/orders?userId=
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	userOrders, err := h.orders.GetOrdersByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(userOrders))
	for _, order := range userOrders {
		out = append(out, toOrderResponse(order))
	}
	respondJSON(w, http.StatusOK, out)
}

// CancelOrder handles DELETE /api/orders/{orderId}
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	if err := h.orders.CancelOrder(r.Context(), orderID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExecuteOrder handles POST /api/orders/{orderId}/execute
func (h *Handler) ExecuteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	if err := h.orders.ExecuteOrder(r.Context(), orderID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPortfolio handles GET /api/portfolio?userId=
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	portfolio, err := h.funds.GetPortfolio(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	holdings := portfolio.Holdings()
	holdingsOut := make([]holdingResponse, 0, len(holdings))
	for _, holding := range holdings {
		holdingsOut = append(holdingsOut, holdingResponse{
			Symbol:       holding.Symbol(),
			Quantity:     holding.Quantity(),
			AveragePrice: holding.AveragePrice(),
		})
	}

	respondJSON(w, http.StatusOK, portfolioResponse{
		ID:          portfolio.ID(),
		UserID:      portfolio.UserID(),
		CashBalance: portfolio.CashBalance(),
		Holdings:    holdingsOut,
	})
}

// GetTransactions handles GET /api/transactions?userId=
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	transactions, err := h.funds.GetTransactions(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, transactionResponse{
			ID:        tx.ID(),
			UserID:    tx.UserID(),
			OrderID:   tx.OrderID(),
			Type:      string(tx.Type()),
			Amount:    tx.Amount(),
			Timestamp: tx.Timestamp(),
			Status:    string(tx.Status()),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// Deposit handles POST /api/portfolio/deposit
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.funds.Deposit(r.Context(), req.UserID, req.Amount); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Withdraw handles POST /api/portfolio/withdraw
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.funds.Withdraw(r.Context(), req.UserID, req.Amount); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func toOrderResponse(order *domain.Order) orderResponse {
	return orderResponse{
		ID:        order.ID(),
		UserID:    order.UserID(),
		Symbol:    order.Symbol(),
		Quantity:  order.Quantity(),
		Price:     order.Price(),
		Status:    string(order.Status()),
		CreatedAt: order.CreatedAt(),
	}
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid order id")
		return uuid.Nil, false
	}
	return orderID, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
