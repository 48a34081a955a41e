package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryOptions {
	return RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds first attempt", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return nil
		}, fastRetry(3))

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, fastRetry(5))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("persistent")
		}, fastRetry(3))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errors.New("bad request"), Retryable: false}
		}, fastRetry(5))

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context stops between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			cancel()
			return errors.New("transient")
		}, fastRetry(5))

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestClientError(t *testing.T) {
	base := errors.New("boom")
	err := NewClientError("CL-001", base)

	assert.Contains(t, err.Error(), "CL-001")
	assert.ErrorIs(t, err, base)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, "CL-001", clientErr.ClientCode)
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(ErrNoTransactions))
	assert.True(t, IsInputError(NewClientError("CL-001", ErrMissingProfileField)))
	assert.False(t, IsInputError(errors.New("disk full")))
	assert.False(t, IsInputError(ErrGenerationFailed))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: false}))
	assert.False(t, IsRetryable(errors.New("plain")))
}
