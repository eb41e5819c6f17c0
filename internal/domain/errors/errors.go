package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrAccountBanned      = errors.New("account banned")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAlreadyProcessed   = errors.New("already processed")
	ErrBelowMinimum       = errors.New("amount below minimum")
	ErrOutOfRange         = errors.New("amount out of allowed range")
	ErrInactive           = errors.New("resource inactive")
	ErrKYCRequired        = errors.New("kyc verification required")
	ErrMaintenance        = errors.New("platform under maintenance")
	ErrProviderFailure    = errors.New("payment provider failure")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrInUse              = errors.New("resource is referenced by other records")
)

// Error codes rendered to clients
const (
	CodeBadRequest         = "ERR_BAD_REQUEST"
	CodeInvalidInput       = "ERR_INVALID_INPUT"
	CodeNotFound           = "ERR_NOT_FOUND"
	CodeConflict           = "ERR_CONFLICT"
	CodeUnauthorized       = "ERR_UNAUTHORIZED"
	CodeForbidden          = "ERR_FORBIDDEN"
	CodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	CodeInsufficientFunds  = "ERR_INSUFFICIENT_FUNDS"
	CodeInvalidTransition  = "ERR_INVALID_TRANSITION"
	CodeUnprocessable      = "ERR_UNPROCESSABLE"
	CodeUnavailable        = "ERR_UNAVAILABLE"
	CodeBadGateway         = "ERR_BAD_GATEWAY"
	CodeTooManyRequests    = "ERR_TOO_MANY_REQUESTS"
	CodeInternalError      = "ERR_INTERNAL"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Unprocessable(message string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeUnprocessable, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// InternalServerError builds a 500 with a caller supplied message
func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}

// FromDomain maps sentinel errors to their HTTP representation. Errors that are
// already an *AppError pass through; unknown errors become a 500.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("resource not found")
	case errors.Is(err, ErrAlreadyExists):
		return Conflict("resource already exists")
	case errors.Is(err, ErrInUse):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	case errors.Is(err, ErrAlreadyProcessed):
		return NewAppError(http.StatusConflict, CodeConflict, "already processed", err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, err.Error(), err)
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password", err)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrTokenExpired), errors.Is(err, ErrInvalidSignature):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, err.Error(), err)
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrAccountBanned), errors.Is(err, ErrKYCRequired):
		return NewAppError(http.StatusForbidden, CodeForbidden, err.Error(), err)
	case errors.Is(err, ErrInsufficientFunds):
		return NewAppError(http.StatusUnprocessableEntity, CodeInsufficientFunds, "insufficient balance", err)
	case errors.Is(err, ErrInvalidTransition):
		return NewAppError(http.StatusConflict, CodeInvalidTransition, err.Error(), err)
	case errors.Is(err, ErrBelowMinimum), errors.Is(err, ErrOutOfRange), errors.Is(err, ErrInactive):
		return Unprocessable(err.Error(), err)
	case errors.Is(err, ErrMaintenance):
		return NewAppError(http.StatusServiceUnavailable, CodeUnavailable, err.Error(), err)
	case errors.Is(err, ErrProviderFailure):
		return NewAppError(http.StatusBadGateway, CodeBadGateway, "payment provider unavailable", err)
	default:
		return InternalError(err)
	}
}
