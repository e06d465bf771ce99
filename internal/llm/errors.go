package llm

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medbill/internal/domain"
)

// defaultRetryAfter is used when the provider sends no usable Retry-After.
const defaultRetryAfter = 60 * time.Second

// RateLimitError reports an HTTP 429 from the chat provider. It matches both
// domain.ErrLLMUnavailable and the underlying SDK error under errors.Is.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() []error {
	return []error{domain.ErrLLMUnavailable, e.Err}
}

// NewRateLimitError builds a RateLimitError; retryAfterSecs <= 0 means 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	wait := defaultRetryAfter
	if retryAfterSecs > 0 {
		wait = time.Duration(retryAfterSecs) * time.Second
	}
	return &RateLimitError{Provider: provider, RetryAfter: wait, Err: err}
}

// ParseRetryAfterHeader returns the wait in whole seconds carried by a
// Retry-After value, either delta-seconds or an HTTP date. Unparseable,
// negative and past values give 0.
func ParseRetryAfterHeader(val string) int {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return max(secs, 0)
	}
	at, err := http.ParseTime(val)
	if err != nil {
		return 0
	}
	return max(int(math.Ceil(time.Until(at).Seconds())), 0)
}
