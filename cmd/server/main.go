package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcardoso/trading-platform/internal/adapter/httpapi"
	"github.com/mcardoso/trading-platform/internal/adapter/kafka"
	"github.com/mcardoso/trading-platform/internal/adapter/repository/postgres"
	"github.com/mcardoso/trading-platform/internal/config"
	"github.com/mcardoso/trading-platform/internal/usecase/funds"
	"github.com/mcardoso/trading-platform/internal/usecase/orders"
)

func main() {
	cfg := config.Load()

	// 1. Setup Database
	db, err := postgres.NewDB(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations applied")

	// 2. Initialize Repositories (Postgres)
	orderRepo := postgres.NewOrderRepository(db)
	portfolioRepo := postgres.NewPortfolioRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// 3. Initialize Kafka publisher and consumer
	publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer consumer.Close()

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	go func() {
		if err := consumer.Run(consumerCtx); err != nil {
			log.Printf("Kafka consumer stopped: %v", err)
		}
	}()

	// 4. Initialize Services (Use Cases)
	orderService := orders.NewOrderService(orderRepo, transactionRepo, publisher)
	fundsService := funds.NewFundsService(portfolioRepo, transactionRepo, publisher)

	// 5. Start HTTP Server
	router := httpapi.SetupRoutes(httpapi.NewHandler(orderService, fundsService))

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(server, cancelConsumer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, cancelConsumer context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	cancelConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("HTTP server stopped")
}
