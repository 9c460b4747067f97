package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/llm-planner/internal/ratelimit"
)

// DefaultMaxRetries allows ten attempts in total.
const DefaultMaxRetries = 9

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxRetries        int
	BaseDelay         time.Duration // default 1s
	MaxRateLimitWaits int           // max consecutive rate limit waits (default 5)
	OnRetry           func(attempt int, delay time.Duration, err error)
	OnRateLimit       func(info *ratelimit.RateLimitInfo)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryWithBackoff retries fn with exponential backoff.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ...
// Rate limit errors wait for the advertised retry-after (or the current
// backoff delay when none was given) without consuming an attempt.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxRateLimitWaits == 0 {
		cfg.MaxRateLimitWaits = 5
	}

	attempt := 0
	delay := cfg.BaseDelay
	rateLimitWaits := 0

	for {
		err := fn()
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			rateLimitWaits++
			if rateLimitWaits > cfg.MaxRateLimitWaits {
				return fmt.Errorf("max rate limit waits (%d) exceeded: %w", cfg.MaxRateLimitWaits, err)
			}

			if cfg.OnRateLimit != nil {
				cfg.OnRateLimit(rateLimitErr.Info)
			}

			if rateLimitErr.Info != nil && rateLimitErr.Info.Parseable {
				if waitErr := ratelimit.WaitForReset(ctx, rateLimitErr.Info); waitErr != nil {
					return fmt.Errorf("rate limit wait cancelled: %w", waitErr)
				}
			} else {
				if sleepErr := sleep(ctx, delay); sleepErr != nil {
					return sleepErr
				}
				delay *= 2
			}
			continue
		}

		if attempt >= cfg.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}

		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}

		delay *= 2
		attempt++
	}
}

// RetryClient wraps any Client with RetryWithBackoff retry logic.
type RetryClient struct {
	Inner    Client
	RetryCfg RetryConfig
}

// Complete delegates to the inner client, retrying on failure.
func (r *RetryClient) Complete(ctx context.Context, prompt string) (string, error) {
	var out string
	err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		var err error
		out, err = r.Inner.Complete(ctx, prompt)
		return err
	})
	return out, err
}
