package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	fmt.Println("📋 Listing recent orders:")

	orders, err := repos.Order.List(context.Background(), nil, 100, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query orders: %v\n", err)
		os.Exit(1)
	}

	for i, order := range orders {
		fmt.Printf("Order #%d:\n", i+1)
		fmt.Printf("  ID: %s\n", order.ID)
		fmt.Printf("  Number: %s\n", order.OrderNumber)
		fmt.Printf("  Customer: %s\n", order.CustomerID)
		fmt.Printf("  Status: %s\n", order.Status)
		fmt.Printf("  Total: %s %s\n", order.TotalAmount.StringFixed(2), order.Currency)
		if order.ShippedAt != nil {
			fmt.Printf("  Shipped: %s\n", order.ShippedAt.Format("2006-01-02 15:04:05"))
		}
		if order.DeliveredAt != nil {
			fmt.Printf("  Delivered: %s\n", order.DeliveredAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("  Created: %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}

	fmt.Printf("Total: %d order(s)\n", len(orders))
}
