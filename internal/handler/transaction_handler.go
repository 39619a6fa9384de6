package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/service"
)

// TransactionHandler handles income and expense endpoints.
type TransactionHandler struct {
	txnService service.TransactionService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(txnService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txnService: txnService}
}

// CreateTransactionRequest represents a new transaction submission.
// Amount accepts a JSON number or string and must be positive.
type CreateTransactionRequest struct {
	Type     string          `json:"type" validate:"required,oneof=income expense"`
	Amount   decimal.Decimal `json:"amount"`
	Purpose  string          `json:"purpose" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Date     string          `json:"date"`
}

// CreateTransaction godoc
// @Summary Record an income or expense
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction data"
// @Success 201 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security SessionAuth
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	session, ok := c.Get("session").(*auth.Session)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	txn, err := h.txnService.Create(
		c.Request().Context(),
		session.UserID,
		model.TransactionType(req.Type),
		req.Amount,
		req.Purpose,
		req.Category,
		date,
	)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, txn)
}

// ListTransactions godoc
// @Summary List the caller's transactions, newest first
// @Tags transactions
// @Produce json
// @Success 200 {array} model.Transaction
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security SessionAuth
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	session, ok := c.Get("session").(*auth.Session)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	txns, err := h.txnService.List(c.Request().Context(), session.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, txns)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
