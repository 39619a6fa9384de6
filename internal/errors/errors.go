package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserAlreadyExists is returned when a username, email or mobile is already taken.
	ErrUserAlreadyExists = errors.New("username, email or mobile already registered")
	// ErrInvalidIdentifier is returned when a string is neither an email address nor a phone number.
	ErrInvalidIdentifier = errors.New("identifier must be an email address or a phone number")
	// ErrInvalidCode is returned when no passcode matches the identifier.
	ErrInvalidCode = errors.New("invalid passcode")
	// ErrCodeExpired is returned when the passcode matched but has expired.
	ErrCodeExpired = errors.New("passcode has expired")
	// ErrUnauthorized is returned when no valid session or reset permission is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidAmount is returned when a transaction amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Store failures fall
// through to a generic 500 so internals never leak to the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_REGISTERED")
	case errors.Is(err, ErrInvalidIdentifier):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_IDENTIFIER")
	case errors.Is(err, ErrInvalidCode):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CODE")
	case errors.Is(err, ErrCodeExpired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CODE_EXPIRED")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
