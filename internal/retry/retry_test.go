package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSuccess(t *testing.T) {
	callCount := 0
	result, err := Do(context.Background(), Single(time.Second), func(ctx context.Context) (string, error) {
		callCount++
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, callCount)
}

func TestDoReturnsErrorUnwrapped(t *testing.T) {
	failure := errors.New("quota exceeded")
	callCount := 0

	result, err := Do(context.Background(), Single(time.Second), func(ctx context.Context) ([][]interface{}, error) {
		callCount++
		return [][]interface{}{{"partial"}}, failure
	})

	assert.Equal(t, failure, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, callCount)
}

func TestDoAttemptTimeout(t *testing.T) {
	start := time.Now()
	_, err := Do(context.Background(), Single(20*time.Millisecond), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoNoTimeoutKeepsParentContext(t *testing.T) {
	_, err := Do(context.Background(), Config{}, func(ctx context.Context) (int, error) {
		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
		return 1, nil
	})
	require.NoError(t, err)
}

func TestDoParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := Do(ctx, Single(time.Second), func(ctx context.Context) (string, error) {
		cancel()
		<-ctx.Done()
		return "", ctx.Err()
	})

	assert.Equal(t, context.Canceled, err)
}

func TestDoAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := Do(ctx, Single(time.Second), func(ctx context.Context) (string, error) {
		called = true
		return "", nil
	})

	assert.Equal(t, context.Canceled, err)
	assert.False(t, called)
}
