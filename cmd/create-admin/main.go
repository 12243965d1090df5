package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	emailFlag := flag.String("email", "", "Admin login email")
	passwordFlag := flag.String("password", "", "Admin password (save it; only the hash is stored)")
	nameFlag := flag.String("name", "Store Admin", "Display name")
	flag.Parse()

	email := strings.ToLower(strings.TrimSpace(*emailFlag))
	password := *passwordFlag
	if email == "" || password == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/create-admin/main.go --email admin@example.com --password \"secret\" [--name \"Store Admin\"]")
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintf(os.Stderr, "Error: password must be at least 8 characters.\n")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db, logger)

	admin := &domain.Customer{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(*nameFlag),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}

	if err := repos.Customer.Create(context.Background(), admin); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Admin account created!\n\n")
	fmt.Printf("ID: %s\n", admin.ID.String())
	fmt.Printf("Email: %s\n", admin.Email)
	fmt.Printf("\nLog in via POST /v1/auth/login to obtain a token.\n")
}
