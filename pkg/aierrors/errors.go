// Package aierrors classifies completion failures for logging.
package aierrors

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/openai/openai-go/v3"
)

// Code is a coarse classification of a completion failure.
type Code string

const (
	AuthFailed     Code = "auth_failed"
	RateLimited    Code = "rate_limited"
	BillingError   Code = "billing_error"
	ContextTooLong Code = "context_too_long"
	ModelNotFound  Code = "model_not_found"
	Timeout        Code = "timeout"
	Overloaded     Code = "overloaded"
	ServerError    Code = "server_error"
	ProviderError  Code = "provider_error"
	NetworkError   Code = "network_error"
	Unknown        Code = "unknown"
)

// Classify maps err to a Code. A nil error yields the empty code.
func Classify(err error) Code {
	if err == nil {
		return ""
	}
	switch {
	case IsTimeoutError(err):
		return Timeout
	case IsBillingError(err):
		return BillingError
	case IsRateLimitError(err):
		return RateLimited
	case IsAuthError(err):
		return AuthFailed
	case IsContextLengthError(err):
		return ContextTooLong
	case IsModelNotFound(err):
		return ModelNotFound
	case IsOverloadedError(err):
		return Overloaded
	case IsServerError(err):
		return ServerError
	case IsNetworkError(err):
		return NetworkError
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return ProviderError
	}
	return Unknown
}

// IsRateLimitError checks if the error is a rate limit (429) error
func IsRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if strings.EqualFold(apiErr.Code, "rate_limit_exceeded") || apiErr.StatusCode == 429 {
			return true
		}
	}
	return ContainsAnyPattern(err, []string{
		"resource_exhausted",
		"usage limit",
	})
}

// IsServerError checks if the error is a server-side (5xx) error
func IsServerError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if strings.EqualFold(apiErr.Code, "server_error") {
			return true
		}
		return apiErr.StatusCode >= 500
	}
	return false
}

// IsAuthError checks if the error is an authentication error.
// Checks openai.Error status codes first, then falls back to string pattern matching.
func IsAuthError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 || apiErr.StatusCode == 403 {
			return true
		}
	}
	return ContainsAnyPattern(err, []string{
		"invalid api key",
		"invalid_api_key",
		"incorrect api key",
		"unauthorized",
		"no api key",
	})
}

// IsModelNotFound checks if the error is a model not found (404) error
func IsModelNotFound(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return ContainsAnyPattern(err, []string{"model_not_found"})
}

// IsContextLengthError checks if the conversation was too long for the model.
func IsContextLengthError(err error) bool {
	return ContainsAnyPattern(err, []string{
		"context length",
		"context_length",
		"maximum context length",
		"prompt is too long",
	})
}

// IsBillingError checks if the error is a billing/payment error (402)
func IsBillingError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 402 {
		return true
	}
	return ContainsAnyPattern(err, []string{
		"payment required",
		"insufficient credits",
		"exceeded your current quota",
		"insufficient_quota",
	})
}

// IsOverloadedError checks if the error indicates the service is overloaded
func IsOverloadedError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 503 {
		return true
	}
	return ContainsAnyPattern(err, []string{
		"overloaded",
		"service unavailable",
	})
}

// IsTimeoutError checks if the error is a timeout error
func IsTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return ContainsAnyPattern(err, []string{
		"timeout",
		"timed out",
		"deadline exceeded",
	})
}

// IsNetworkError checks if the endpoint could not be reached at all.
func IsNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return ContainsAnyPattern(err, []string{
		"connection refused",
		"no such host",
		"connection reset",
	})
}

// ContainsAnyPattern checks if the lowercased error message contains any of the given patterns.
func ContainsAnyPattern(err error, patterns []string) bool {
	msg := strings.ToLower(safeErrorString(err))
	if msg == "" {
		return false
	}
	for _, pattern := range patterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// safeErrorString guards against error types whose Error method dereferences
// fields that are only set on real responses.
func safeErrorString(err error) (text string) {
	if err == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	return err.Error()
}
