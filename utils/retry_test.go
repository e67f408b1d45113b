package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

func transientErr() error {
	return &types.ServiceError{Service: "test", StatusCode: 503, Message: "unavailable"}
}

func permanentErr() error {
	return &types.ServiceError{Service: "test", StatusCode: 400, Message: "bad request"}
}

func TestWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_TransientThenSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return transientErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_PermanentFailsImmediately(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanentErr()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var serviceErr *types.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, 400, serviceErr.StatusCode)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return transientErr()
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, types.ErrRetriesExhausted)

	// The last underlying error stays reachable.
	var serviceErr *types.ServiceError
	assert.ErrorAs(t, err, &serviceErr)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, 5, 50*time.Millisecond, func() error {
		calls++
		cancel()
		return transientErr()
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return errors.New("plain failure")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryDelay_Doubles(t *testing.T) {
	base := 500 * time.Millisecond
	assert.Equal(t, 500*time.Millisecond, RetryDelay(base, 0))
	assert.Equal(t, time.Second, RetryDelay(base, 1))
	assert.Equal(t, 2*time.Second, RetryDelay(base, 2))
}

func TestRetryDelay_Capped(t *testing.T) {
	base := 500 * time.Millisecond
	assert.Equal(t, 10*time.Second, RetryDelay(base, 20))
}
