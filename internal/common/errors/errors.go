// Package errors provides standardized error handling for provider
// orchestration and trend analysis.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Provider-level errors, recovered locally by the fallback executor.
const (
	ErrCodeCredentialMissing ErrorCode = "CREDENTIAL_MISSING"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeUnreachable       ErrorCode = "UNREACHABLE"
)

// Orchestration-level errors.
const (
	ErrCodeChainExhausted     ErrorCode = "CHAIN_EXHAUSTED"
	ErrCodeInvalidTrendSignal ErrorCode = "INVALID_TREND_SIGNAL"
)

// ProviderError represents a structured failure of a provider adapter or of
// the orchestration around it.
type ProviderError struct {
	Code      ErrorCode `json:"code"`
	Vendor    string    `json:"vendor,omitempty"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ProviderError) Error() string {
	if e.Vendor != "" {
		return fmt.Sprintf("ProviderError[%s] %s: %s", e.Code, e.Vendor, e.Message)
	}
	return fmt.Sprintf("ProviderError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewCredentialMissingError creates a non-retryable credential error.
func NewCredentialMissingError(vendor, details string) *ProviderError {
	return &ProviderError{
		Code:      ErrCodeCredentialMissing,
		Vendor:    vendor,
		Message:   "Provider credential is missing or rejected",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a retryable rate-limit error.
func NewRateLimitedError(vendor, details string) *ProviderError {
	return &ProviderError{
		Code:      ErrCodeRateLimited,
		Vendor:    vendor,
		Message:   "Provider rejected the request due to rate limiting",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates a retryable per-attempt timeout error.
func NewTimeoutError(vendor string) *ProviderError {
	return &ProviderError{
		Code:      ErrCodeTimeout,
		Vendor:    vendor,
		Message:   "Provider call exceeded the attempt timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError creates a non-retryable parse error.
func NewMalformedResponseError(vendor string, err error) *ProviderError {
	return &ProviderError{
		Code:      ErrCodeMalformedResponse,
		Vendor:    vendor,
		Message:   "Provider response could not be parsed",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnreachableError creates a retryable transport error.
func NewUnreachableError(vendor string, err error) *ProviderError {
	return &ProviderError{
		Code:      ErrCodeUnreachable,
		Vendor:    vendor,
		Message:   "Provider endpoint is unreachable",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewChainExhaustedError creates the error returned when every member of a
// fallback chain failed or was skipped. Callers must recover with a non-AI
// fallback; this is never surfaced as a batch failure.
func NewChainExhaustedError(capability, tier string, attempted []string) *ProviderError {
	return &ProviderError{
		Code:      ErrCodeChainExhausted,
		Message:   fmt.Sprintf("All providers failed for %s/%s", capability, tier),
		Details:   strings.Join(attempted, ", "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTrendSignalError creates a per-item rejection error for a trend
// signal that fails validation.
func NewInvalidTrendSignalError(details string) *ProviderError {
	return &ProviderError{
		Code:      ErrCodeInvalidTrendSignal,
		Message:   "Trend signal failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the ErrorCode from an error chain. Unclassified errors map
// to UNREACHABLE, the most conservative retryable class.
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ErrCodeUnreachable
}

// IsChainExhausted reports whether err means the whole fallback chain failed.
func IsChainExhausted(err error) bool {
	return CodeOf(err) == ErrCodeChainExhausted
}

// IsRetryableCode checks if an error code may succeed on a later run.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeRateLimited, ErrCodeTimeout, ErrCodeUnreachable:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeCredentialMissing:
		return "CREDENTIAL"
	case ErrCodeRateLimited, ErrCodeTimeout, ErrCodeUnreachable:
		return "TRANSPORT"
	case ErrCodeMalformedResponse:
		return "PARSE"
	case ErrCodeChainExhausted:
		return "ORCHESTRATION"
	case ErrCodeInvalidTrendSignal:
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
