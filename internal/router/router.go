package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions auth.SessionStoreInterface,
	authHandler *handler.AuthHandler,
	resetHandler *handler.ResetHandler,
	txnHandler *handler.TransactionHandler,
	healthHandler *handler.HealthHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/check-session", authHandler.CheckSession)
	api.POST("/forgot-password", resetHandler.ForgotPassword)
	api.POST("/verify-otp", resetHandler.VerifyOTP)

	// Guarded by the signed reset token issued on passcode verification.
	api.POST("/reset-password", resetHandler.ResetPassword, echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.ResetClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Absent and invalid tokens both mean "no reset permission".
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing reset token")
		},
	}))

	// Secured routes (require a server-side session)
	secured := api.Group("", sessionRequired(sessions))

	secured.POST("/transactions", txnHandler.CreateTransaction)
	secured.GET("/transactions", txnHandler.ListTransactions)
}

// sessionRequired resolves the opaque session token and stores the session
// in the request context, rejecting requests without one.
func sessionRequired(sessions auth.SessionStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := handler.SessionToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}
			session, err := sessions.Get(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}
			c.Set("session", session)
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
