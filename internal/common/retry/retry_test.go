package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizgen/internal/common/logger"
)

// ==========================
// Core Functionality Tests
// ==========================

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	}, 3, time.Millisecond, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("boom")
		}
		return 42, nil
	}, 5, time.Millisecond, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	calls := 0
	firstErr := errors.New("first")
	lastErr := errors.New("last")

	_, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", firstErr
		}
		return "", lastErr
	}, 3, time.Millisecond, logger.NewTestLogger(t))

	assert.Equal(t, 3, calls)
	// The last observed error comes back unmodified, not wrapped.
	assert.Same(t, lastErr, err)
}

func TestDo_ExponentialBackoffTiming(t *testing.T) {
	start := time.Now()
	var invocations []time.Duration

	_, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		invocations = append(invocations, time.Since(start))
		return "", errors.New("always fails")
	}, 3, 50*time.Millisecond, logger.NewTestLogger(t))

	require.Error(t, err)
	require.Len(t, invocations, 3)

	// Delays double per failed attempt: 50ms after the first failure, then
	// 100ms after the second.
	assert.GreaterOrEqual(t, invocations[1], 50*time.Millisecond)
	assert.GreaterOrEqual(t, invocations[2]-invocations[1], 100*time.Millisecond)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("unavailable")
	}, 5, time.Second, logger.NewTestLogger(t))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestErr_WrapsValuelessOperation(t *testing.T) {
	calls := 0
	err := Err(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	}, 3, time.Millisecond, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
