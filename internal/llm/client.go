// Package llm talks to language models and retries failed calls.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/CodexForgeBR/llm-planner/internal/ratelimit"
)

// Client completes a single prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrUnavailable wraps every non rate-limit failure of the model service.
var ErrUnavailable = errors.New("language model unavailable")

// RateLimitError is returned when the service reports a rate limit.
type RateLimitError struct {
	Info          *ratelimit.RateLimitInfo
	UnderlyingErr error
}

func (e *RateLimitError) Error() string {
	if e.Info != nil && e.Info.Parseable {
		return fmt.Sprintf("rate limit detected (retry after %s)", e.Info.RetryAfter)
	}
	return "rate limit detected (retry time unknown)"
}

func (e *RateLimitError) Unwrap() error {
	return e.UnderlyingErr
}
