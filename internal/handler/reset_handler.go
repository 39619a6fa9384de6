package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/identifier"
	"fintrack/internal/service"
)

// forgotPasswordMessage is returned whether or not the identifier matched an
// account, so callers cannot probe which addresses are registered.
const forgotPasswordMessage = "if the identifier matches an account, a reset code has been sent"

// ResetHandler handles the OTP password-reset endpoints.
type ResetHandler struct {
	resetService service.ResetService
}

// NewResetHandler creates a new reset handler.
func NewResetHandler(resetService service.ResetService) *ResetHandler {
	return &ResetHandler{resetService: resetService}
}

// ForgotPasswordRequest represents a reset code request.
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// VerifyOTPRequest represents a passcode verification request.
type VerifyOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	OTPCode    string `json:"otp_code" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest represents the final password replacement request.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Tags reset
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Email or phone number"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /forgot-password [post]
func (h *ResetHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ident, err := identifier.Parse(req.Identifier)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.resetService.ForgotPassword(c.Request().Context(), ident); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": forgotPasswordMessage,
	})
}

// VerifyOTP godoc
// @Summary Verify a reset passcode
// @Tags reset
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Identifier and passcode"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /verify-otp [post]
func (h *ResetHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ident, err := identifier.Parse(req.Identifier)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resetToken, err := h.resetService.VerifyOTP(c.Request().Context(), ident, req.OTPCode)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":     "passcode verified",
		"reset_token": resetToken,
	})
}

// ResetPassword godoc
// @Summary Replace the password using a reset token
// @Tags reset
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /reset-password [post]
func (h *ResetHandler) ResetPassword(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid reset token")
	}
	claims, ok := token.Claims.(*auth.ResetClaims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid reset token")
	}

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.resetService.ResetPassword(c.Request().Context(), claims, req.Password); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password reset successfully",
	})
}
