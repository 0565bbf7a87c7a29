package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Security & Request Signing (SEC) ----

func ErrInvalidAccessKey() *AppError {
	return New("SEC_001", "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrTenantSuspended() *AppError {
	return New("AUTH_003", "Tenant account is suspended", http.StatusForbidden)
}

// ---- Stake Tracking (TRK) ----

func ErrSubmissionNotFound() *AppError {
	return New("TRK_001", "Tracked submission not found", http.StatusNotFound)
}

func ErrInvalidTxSignature() *AppError {
	return New("TRK_002", "Invalid transaction signature", http.StatusBadRequest)
}

func ErrInvalidLamports() *AppError {
	return New("TRK_003", "Stake amount must be positive", http.StatusBadRequest)
}

// ---- Webhook Subscriptions (SUB) ----

func ErrInsecureWebhookURL() *AppError {
	return New("SUB_001", "Webhook URL must use https", http.StatusBadRequest)
}

func ErrUnknownEventType(eventType string) *AppError {
	return New("SUB_002", fmt.Sprintf("Unknown event type: %s", eventType), http.StatusBadRequest)
}

func ErrNoEventTypes() *AppError {
	return New("SUB_003", "At least one event type is required", http.StatusBadRequest)
}

func ErrDuplicateSubscription() *AppError {
	return New("SUB_004", "An active subscription already exists for this URL", http.StatusConflict)
}

func ErrSubscriptionNotFound() *AppError {
	return New("SUB_005", "Subscription not found", http.StatusNotFound)
}

// ---- Upstream RPC (RPC) ----

// ErrUpstreamUnavailable is returned when every configured RPC endpoint has
// failed. It is the only error the endpoint manager surfaces to synchronous
// callers.
func ErrUpstreamUnavailable(err error) *AppError {
	return Wrap("RPC_001", "All RPC endpoints unavailable", http.StatusServiceUnavailable, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic bad-request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
