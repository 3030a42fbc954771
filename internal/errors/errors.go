// Package errors provides custom error types for the Moneta sync core.
// All service-layer errors use AppError so callers can distinguish
// validation failures (not retried) from transient remote failures
// (queued and retried by the orchestrator).
package errors

import "errors"

// AppError represents a structured application error with an error code,
// human-readable message, retry classification, and optional internal error.
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Transient bool   `json:"-"`
	Internal  error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/classification but
// wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:      sentinel.Code,
		Message:   sentinel.Message,
		Transient: sentinel.Transient,
		Internal:  internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:      sentinel.Code,
		Message:   message,
		Transient: sentinel.Transient,
		Internal:  sentinel.Internal,
	}
}

// IsTransient reports whether err is classified as retryable. Transient
// failures fall back to the pending queue; they are never surfaced as fatal
// because the local write already succeeded.
func IsTransient(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Transient
	}
	return false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Validation errors. Surfaced synchronously to the caller, never retried.
var (
	ErrInvalidInput        = &AppError{Code: "INVALID_INPUT", Message: "Invalid input"}
	ErrReservedWalletName  = &AppError{Code: "RESERVED_WALLET_NAME", Message: "Wallet name is reserved"}
	ErrDuplicateWalletName = &AppError{Code: "DUPLICATE_WALLET_NAME", Message: "A wallet with this name already exists"}
)

// Lookup errors.
var (
	ErrNotFound            = &AppError{Code: "NOT_FOUND", Message: "Resource not found"}
	ErrWalletNotFound      = &AppError{Code: "WALLET_NOT_FOUND", Message: "Wallet not found"}
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found"}
	ErrCategoryNotFound    = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found"}
)

// Remote errors.
var (
	// ErrRemoteUnavailable covers network unreachability, backend timeouts,
	// and 5xx responses. Writes that hit it fall back to the pending queue.
	ErrRemoteUnavailable = &AppError{Code: "REMOTE_UNAVAILABLE", Message: "Remote store unavailable", Transient: true}
	// ErrRemoteRejected covers permanent remote failures (validation or
	// constraint violations reported by the backend).
	ErrRemoteRejected = &AppError{Code: "REMOTE_REJECTED", Message: "Remote store rejected the operation"}
	// ErrBackendOffline marks the session-wide local-only fallback entered
	// when the backend cannot be reached at all for the initial load.
	ErrBackendOffline = &AppError{Code: "BACKEND_OFFLINE", Message: "Backend unreachable, running in local-only mode", Transient: true}
)

// General errors.
var (
	ErrInternal = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred"}
)
