package main

import (
	"log"
	"net/http"
	"os"

	_ "fintrack/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/delivery"
	"fintrack/internal/handler"
	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/internal/router"
	"fintrack/internal/service"
)

// @title Fintrack API
// @version 1.0
// @description Personal finance tracker with session login and OTP password reset.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the reset token from /verify-otp.
// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token from /login.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Transaction{},
			&model.PasswordReset{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.PasswordReset{},
		&model.Transaction{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	resetRepo := repository.NewPasswordResetRepository(gormDB)
	txnRepo := repository.NewTransactionRepository(gormDB)

	// Initialize auth components
	sessionStore := auth.NewSessionStore(cacheClient, cfg.SessionTTL)
	resetTokens := auth.NewResetTokenService(cfg.JWTSecret)
	permitStore := auth.NewPermitStore(cacheClient)

	// Initialize delivery channels, falling back to log-only senders when
	// no gateway credentials are configured.
	var smsSender delivery.Sender = delivery.NewLogSender("sms")
	if cfg.SMSAccountID != "" && cfg.SMSAPIURL != "" {
		smsSender = delivery.NewSMSSender(cfg.SMSAPIURL, cfg.SMSAccountID, cfg.SMSAuthToken, cfg.SMSFrom)
	}
	var emailSender delivery.Sender = delivery.NewLogSender("email")
	if cfg.SMTPHost != "" {
		emailSender = delivery.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionStore)
	resetService := service.NewResetService(userRepo, resetRepo, resetTokens, permitStore, smsSender, emailSender)
	txnService := service.NewTransactionService(txnRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	resetHandler := handler.NewResetHandler(resetService)
	txnHandler := handler.NewTransactionHandler(txnService)
	healthHandler := handler.NewHealthHandler(gormDB)

	// Register routes
	router.Register(
		e,
		cfg,
		sessionStore,
		authHandler,
		resetHandler,
		txnHandler,
		healthHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
