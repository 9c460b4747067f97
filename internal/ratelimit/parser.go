// Package ratelimit provides rate limit detection and retry-after parsing
// for language model API errors.
package ratelimit

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// ResetBuffer is added to the advertised retry-after to avoid retrying too early.
	ResetBuffer = 500 * time.Millisecond

	// BarePatternMaxContentSize is the maximum content size for bare pattern matching
	// to avoid false positives from a model discussing rate limits in its answer text.
	BarePatternMaxContentSize = 2000
)

// RateLimitInfo contains parsed rate limit information
type RateLimitInfo struct {
	// Detected indicates if a rate limit was found
	Detected bool

	// Parseable indicates if the retry-after could be parsed
	Parseable bool

	// RetryAfter is the advertised wait, buffer included
	RetryAfter time.Duration

	// ResetAt is when the limit is expected to lift
	ResetAt time.Time
}

var (
	// "Please try again in 20s." / "try again in 350ms" / "try again in 1m2.5s"
	tryAgainPattern = regexp.MustCompile(`(?i)try again in\s+(\d[\d.hms]*)`)

	// "Retry after 30 seconds"
	retryAfterPattern = regexp.MustCompile(`(?i)retry[- ]after:?\s+(\d+)\s*(?:s\b|sec|seconds?)?`)

	// Bare detection patterns (no parseable time)
	barePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)rate limit`),
		regexp.MustCompile(`(?i)too many requests`),
		regexp.MustCompile(`\b429\b`),
	}
)

// FindRetryAfter searches content for a rate limit and its advertised wait.
// detected reports whether any rate limit pattern matched; wait is zero when
// the limit was detected without a parseable duration.
func FindRetryAfter(content string) (wait time.Duration, detected bool) {
	if m := tryAgainPattern.FindStringSubmatch(content); m != nil {
		d, err := time.ParseDuration(strings.TrimRight(m[1], "."))
		if err == nil && d > 0 {
			return d, true
		}
		return 0, true
	}

	if m := retryAfterPattern.FindStringSubmatch(content); m != nil {
		secs, err := strconv.Atoi(m[1])
		if err == nil && secs > 0 {
			return time.Duration(secs) * time.Second, true
		}
		return 0, true
	}

	// Only check bare patterns for short content to avoid false positives
	if len(content) <= BarePatternMaxContentSize {
		for _, p := range barePatterns {
			if p.MatchString(content) {
				return 0, true
			}
		}
	}

	return 0, false
}

// CheckRateLimit inspects an error message for rate limit patterns.
// Returns nil if no rate limit detected.
// Returns RateLimitInfo with Detected=true, Parseable=false if the wait is unknown.
// Returns RateLimitInfo with Detected=true, Parseable=true and timing info if fully parsed.
func CheckRateLimit(content string, now time.Time) *RateLimitInfo {
	wait, detected := FindRetryAfter(content)
	if !detected {
		return nil
	}
	if wait == 0 {
		return &RateLimitInfo{Detected: true}
	}

	wait += ResetBuffer
	return &RateLimitInfo{
		Detected:   true,
		Parseable:  true,
		RetryAfter: wait,
		ResetAt:    now.Add(wait),
	}
}
