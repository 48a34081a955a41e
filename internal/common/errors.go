// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors: abort one client's run, never the batch.
	ErrNoTransactions      = errors.New("no transactions for client")
	ErrMissingProfileField = errors.New("missing required profile field")

	// Configuration errors: fail fast at startup.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Generation errors.
	ErrGenerationFailed = errors.New("notification generation failed")
	ErrRateLimit        = errors.New("rate limit exceeded")
	ErrMaxRetries       = errors.New("max retries exceeded")
)

// RetryableError wraps an error with retry-specific metadata.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// ClientError ties a failure to the client whose run produced it, so batch
// reporting can attribute failures without aborting siblings.
type ClientError struct {
	Err        error
	ClientCode string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client %s: %v", e.ClientCode, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError wraps err with the owning client code.
func NewClientError(clientCode string, err error) error {
	return &ClientError{ClientCode: clientCode, Err: err}
}

// IsInputError reports whether err is a per-client input problem rather than
// a systemic one.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoTransactions) || errors.Is(err, ErrMissingProfileField)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
