package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// WaitForReset blocks until info.ResetAt.
// Respects context cancellation for graceful shutdown.
func WaitForReset(ctx context.Context, info *RateLimitInfo) error {
	if info == nil || !info.Parseable {
		return fmt.Errorf("cannot wait: rate limit info is nil or not parseable")
	}

	remaining := time.Until(info.ResetAt)
	if remaining <= 0 {
		// Already past reset time
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
