package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode categorizes provider errors
type ErrorCode string

const (
	ErrCodeUnknown        ErrorCode = "unknown"
	ErrCodeAuthentication ErrorCode = "authentication"
	ErrCodeRateLimit      ErrorCode = "rate_limit"
	ErrCodeInvalidRequest ErrorCode = "invalid_request"
	ErrCodeNotFound       ErrorCode = "not_found"
	ErrCodeServerError    ErrorCode = "server_error"
	ErrCodeNetwork        ErrorCode = "network"
	ErrCodeMalformed      ErrorCode = "malformed_response"
	ErrCodeConfiguration  ErrorCode = "configuration"
	ErrCodeNoAllocation   ErrorCode = "no_allocation"
)

// ProviderError is the internal error representation adapters use before a
// failure is normalized into a result value at the contract boundary.
type ProviderError struct {
	Code        ErrorCode // Categorized error code
	Message     string    // Human-readable message
	StatusCode  int       // HTTP status code (0 if not applicable)
	Provider    string    // Which provider generated this error
	Operation   string    // What operation failed (e.g., "create_email", "check_sms")
	OriginalErr error     // Wrapped original error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	op := ""
	if e.Operation != "" {
		op = e.Operation + ": "
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s%s (status=%d, code=%s)", e.Provider, op, e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("[%s] %s%s (code=%s)", e.Provider, op, e.Message, e.Code)
}

// Unwrap returns the original error for errors.Is/As
func (e *ProviderError) Unwrap() error {
	return e.OriginalErr
}

// WithOperation sets the operation field and returns the error for chaining
func (e *ProviderError) WithOperation(operation string) *ProviderError {
	e.Operation = operation
	return e
}

// WithStatusCode sets the status code field and returns the error for chaining
func (e *ProviderError) WithStatusCode(statusCode int) *ProviderError {
	e.StatusCode = statusCode
	return e
}

// WithOriginalErr sets the original error field and returns the error for chaining
func (e *ProviderError) WithOriginalErr(err error) *ProviderError {
	e.OriginalErr = err
	return e
}

// NewProviderError creates a new ProviderError
func NewProviderError(provider string, code ErrorCode, message string) *ProviderError {
	return &ProviderError{
		Code:     code,
		Message:  message,
		Provider: provider,
	}
}

// NewHTTPError creates an error for a non-2xx upstream response
func NewHTTPError(provider string, statusCode int, message string) *ProviderError {
	return &ProviderError{
		Code:       ClassifyHTTPError(statusCode),
		Message:    message,
		Provider:   provider,
		StatusCode: statusCode,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(provider string, err error) *ProviderError {
	return &ProviderError{
		Code:        ErrCodeNetwork,
		Message:     "request failed",
		Provider:    provider,
		OriginalErr: err,
	}
}

// NewMalformedError creates an error for a response body that could not be decoded
func NewMalformedError(provider string, err error) *ProviderError {
	return &ProviderError{
		Code:        ErrCodeMalformed,
		Message:     "malformed response body",
		Provider:    provider,
		OriginalErr: err,
	}
}

// NewConfigError creates an error for missing or invalid provider configuration
func NewConfigError(provider string, message string) *ProviderError {
	return &ProviderError{
		Code:     ErrCodeConfiguration,
		Message:  message,
		Provider: provider,
	}
}

// ClassifyHTTPError determines error code from HTTP status
func ClassifyHTTPError(statusCode int) ErrorCode {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrCodeAuthentication
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusPaymentRequired:
		return ErrCodeInvalidRequest
	case http.StatusNotFound:
		return ErrCodeNotFound
	default:
		if statusCode >= 500 {
			return ErrCodeServerError
		}
		return ErrCodeUnknown
	}
}

// IsAuthError reports whether err is a ProviderError caused by rejected credentials
func IsAuthError(err error) bool {
	pe, ok := AsProviderError(err)
	return ok && pe.Code == ErrCodeAuthentication
}

// AsProviderError unwraps err into a *ProviderError when possible
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
