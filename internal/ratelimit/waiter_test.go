package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForReset_NilInfo(t *testing.T) {
	err := WaitForReset(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil or not parseable")
}

func TestWaitForReset_NotParseable(t *testing.T) {
	err := WaitForReset(context.Background(), &RateLimitInfo{Detected: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil or not parseable")
}

func TestWaitForReset_AlreadyPast(t *testing.T) {
	info := &RateLimitInfo{
		Detected:  true,
		Parseable: true,
		ResetAt:   time.Now().Add(-10 * time.Second),
	}
	require.NoError(t, WaitForReset(context.Background(), info))
}

func TestWaitForReset_ContextCancelled(t *testing.T) {
	info := &RateLimitInfo{
		Detected:  true,
		Parseable: true,
		ResetAt:   time.Now().Add(time.Hour),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := WaitForReset(ctx, info)
	assert.Equal(t, context.Canceled, err)
}

func TestWaitForReset_ShortWait(t *testing.T) {
	info := &RateLimitInfo{
		Detected:  true,
		Parseable: true,
		ResetAt:   time.Now().Add(100 * time.Millisecond),
	}

	start := time.Now()
	require.NoError(t, WaitForReset(context.Background(), info))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)
	assert.Less(t, elapsed, 5*time.Second)
}
