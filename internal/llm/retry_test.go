package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/llm-planner/internal/ratelimit"
)

// mockClient is a test double for Client used in retry tests.
type mockClient struct {
	calls   int
	results []error
}

func (m *mockClient) Complete(_ context.Context, prompt string) (string, error) {
	idx := m.calls
	m.calls++
	if idx < len(m.results) && m.results[idx] != nil {
		return "", m.results[idx]
	}
	return "answer to " + prompt, nil
}

// Compile-time interface checks.
var (
	_ Client = (*RetryClient)(nil)
	_ Client = (*OpenAIClient)(nil)
)

func TestRetryWithBackoff_DelaysDouble(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		OnRetry: func(_ int, delay time.Duration, _ error) {
			delays = append(delays, delay)
		},
	}

	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return errors.New("retry me")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (3) exceeded")
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
}

func TestRetryWithBackoff_DefaultAllowsTenAttempts(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: DefaultMaxRetries, BaseDelay: time.Microsecond}, func() error {
		calls++
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, 10, calls)
}

func TestRetryWithBackoff_SucceedsEventually(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 5, BaseDelay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_RateLimitDoesNotConsumeAttempts(t *testing.T) {
	var notified int
	cfg := RetryConfig{
		MaxRetries:        0,
		BaseDelay:         time.Millisecond,
		MaxRateLimitWaits: 3,
		OnRateLimit:       func(*ratelimit.RateLimitInfo) { notified++ },
	}

	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		if calls <= 2 {
			return &RateLimitError{Info: &ratelimit.RateLimitInfo{
				Detected:  true,
				Parseable: true,
				ResetAt:   time.Now().Add(-time.Second),
			}}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, notified)
}

func TestRetryWithBackoff_UnparseableRateLimitBacksOff(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{BaseDelay: time.Millisecond, MaxRateLimitWaits: 2}, func() error {
		calls++
		return &RateLimitError{Info: &ratelimit.RateLimitInfo{Detected: true}}
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max rate limit waits (2) exceeded")
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := RetryWithBackoff(ctx, RetryConfig{MaxRetries: 10, BaseDelay: time.Minute}, func() error {
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRetryClient(t *testing.T) {
	t.Run("delegates once on success", func(t *testing.T) {
		inner := &mockClient{}
		c := &RetryClient{Inner: inner, RetryCfg: RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}}

		got, err := c.Complete(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, "answer to hi", got)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		inner := &mockClient{results: []error{ErrUnavailable, ErrUnavailable}}
		c := &RetryClient{Inner: inner, RetryCfg: RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}}

		got, err := c.Complete(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, "answer to hi", got)
		assert.Equal(t, 3, inner.calls)
	})

	t.Run("keeps the cause when exhausted", func(t *testing.T) {
		inner := &mockClient{results: []error{ErrUnavailable, ErrUnavailable, ErrUnavailable}}
		c := &RetryClient{Inner: inner, RetryCfg: RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond}}

		_, err := c.Complete(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 2, inner.calls)
	})
}
