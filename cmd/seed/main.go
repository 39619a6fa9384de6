package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@example.com"
	demoMobile   = "+15550100000"
	demoPassword = "demo-password"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.Transaction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	txnRepo := repository.NewTransactionRepository(gormDB)

	user, err := userRepo.FindByUsername(ctx, demoUsername)
	if err == gorm.ErrRecordNotFound {
		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
		if err != nil {
			log.Fatalf("Failed to hash demo password: %v", err)
		}
		user = &model.User{
			Username:     demoUsername,
			Email:        demoEmail,
			Mobile:       demoMobile,
			PasswordHash: string(hash),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %q (password %q)", demoUsername, demoPassword)
	} else if err != nil {
		log.Fatalf("Failed to look up demo user: %v", err)
	} else {
		log.Printf("Demo user %q already exists, skipping", demoUsername)
	}

	existing, err := txnRepo.ListByUser(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to list transactions: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Demo user already has %d transactions, nothing to do", len(existing))
		return
	}

	now := time.Now()
	samples := []model.Transaction{
		{UserID: user.ID, Type: model.TransactionTypeIncome, Amount: decimal.NewFromInt(2500), Purpose: "Monthly salary", Category: "salary", Date: now.AddDate(0, 0, -20)},
		{UserID: user.ID, Type: model.TransactionTypeExpense, Amount: decimal.NewFromFloat(850.00), Purpose: "Rent", Category: "housing", Date: now.AddDate(0, 0, -18)},
		{UserID: user.ID, Type: model.TransactionTypeExpense, Amount: decimal.NewFromFloat(64.30), Purpose: "Groceries", Category: "food", Date: now.AddDate(0, 0, -6)},
		{UserID: user.ID, Type: model.TransactionTypeExpense, Amount: decimal.NewFromFloat(12.99), Purpose: "Streaming subscription", Category: "entertainment", Date: now.AddDate(0, 0, -3)},
		{UserID: user.ID, Type: model.TransactionTypeIncome, Amount: decimal.NewFromFloat(150.00), Purpose: "Sold old bike", Category: "other", Date: now.AddDate(0, 0, -1)},
	}

	seeded := 0
	for i := range samples {
		if err := txnRepo.Create(ctx, &samples[i]); err != nil {
			log.Printf("Warning: failed to seed transaction %q: %v", samples[i].Purpose, err)
			continue
		}
		seeded++
	}
	log.Printf("Seeded %d transactions for %q", seeded, demoUsername)
}
