package httpapi

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Order routes
	api.HandleFunc("/orders", handler.PlaceOrder).Methods("POST")
	api.HandleFunc("/orders", handler.GetOrders).Methods("GET")
	api.HandleFunc("/orders/{orderId}", handler.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{orderId}", handler.CancelOrder).Methods("DELETE")
	api.HandleFunc("/orders/{orderId}/execute", handler.ExecuteOrder).Methods("POST")

	// Portfolio routes
	api.HandleFunc("/portfolio", handler.GetPortfolio).Methods("GET")
	api.HandleFunc("/portfolio/deposit", handler.Deposit).Methods("POST")
	api.HandleFunc("/portfolio/withdraw", handler.Withdraw).Methods("POST")

	// Transaction routes
	api.HandleFunc("/transactions", handler.GetTransactions).Methods("GET")

	return r
}
