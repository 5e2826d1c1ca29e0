package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_Success(t *testing.T) {
	attempts := 0
	result, err := RetryWithBackoff(context.Background(), 3, 10*time.Millisecond, func(_ context.Context, attempt int) (string, error) {
		attempts++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, attempts, "should succeed on first try")
}

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	var seen []int
	result, err := RetryWithBackoff(context.Background(), 5, time.Millisecond, func(_ context.Context, attempt int) (int, error) {
		seen = append(seen, attempt)
		if attempt < 3 {
			return 0, errors.New("temporary error")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	result, err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(_ context.Context, _ int) ([]string, error) {
		attempts++
		return []string{"partial"}, expectedErr
	})
	assert.Equal(t, expectedErr, err, "should return the original error")
	assert.Nil(t, result, "failed attempts return the zero value")
	assert.Equal(t, 3, attempts, "should attempt exactly maxAttempts times")
}

func TestRetryWithBackoff_Backoff(t *testing.T) {
	start := time.Now()
	_, err := RetryWithBackoff(context.Background(), 3, 20*time.Millisecond, func(_ context.Context, _ int) (struct{}, error) {
		return struct{}{}, errors.New("error")
	})
	require.Error(t, err)
	// 20ms + 40ms between three attempts
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	_, err := RetryWithBackoff(ctx, 10, 10*time.Millisecond, func(_ context.Context, _ int) (int, error) {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return 0, errors.New("error")
	})
	assert.ErrorIs(t, err, context.Canceled, "should return context.Canceled")
	assert.Equal(t, 2, attempts, "should stop when context is canceled")
}

func TestRetryWithBackoff_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := RetryWithBackoff(ctx, 10, time.Second, func(_ context.Context, _ int) (int, error) {
		return 0, errors.New("error")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryWithBackoff_InvalidMaxAttempts(t *testing.T) {
	for _, attempts := range []int{0, -1} {
		_, err := RetryWithBackoff(context.Background(), attempts, time.Millisecond, func(_ context.Context, _ int) (int, error) {
			t.Fatal("operation must not run")
			return 0, nil
		})
		assert.Equal(t, ErrInvalidMaxAttempts, err)
	}
}
