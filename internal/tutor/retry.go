package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
)

// RetryConfig configures the retry behavior for model calls.
type RetryConfig struct {
	MaxRetries      int           // maximum number of retry attempts
	InitialInterval time.Duration // initial backoff interval
	MaxInterval     time.Duration // maximum backoff interval
}

// DefaultRetryConfig returns sensible defaults for LLM API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// retryablePatterns groups error substrings by category, matched
// case-insensitively against err.Error().
//
// NOTE: string matching is used because Genkit and provider SDKs do not
// expose typed errors for transient failures.
var retryablePatterns = [][]string{
	{"rate limit", "quota exceeded", "429"},      // rate limiting
	{"500", "502", "503", "504", "unavailable"},  // transient server errors
	{"connection reset", "timeout", "temporary"}, // network errors
}

// retryableError reports whether err is transient and should trigger a retry.
func retryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, group := range retryablePatterns {
		for _, sub := range group {
			if strings.Contains(errStr, sub) {
				return true
			}
		}
	}
	return false
}

// generateWithRetry executes generation with exponential backoff retry.
// Each attempt is rate limited.
func (l *llmGenerator) generateWithRetry(ctx context.Context, opts []ai.GenerateOption) (*ai.ModelResponse, error) {
	var lastErr error
	delay := l.retryConfig.InitialInterval
	start := time.Now()

	for attempt := 0; attempt <= l.retryConfig.MaxRetries; attempt++ {
		if l.limiter != nil {
			if err := l.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		resp, err := l.model.Generate(ctx, opts...)
		if err == nil {
			l.logger.Debug("generation completed",
				"attempts", attempt+1,
				"elapsed", time.Since(start),
			)
			return resp, nil
		}

		lastErr = err

		// Non-retryable error - fail immediately.
		if !retryableError(err) {
			return nil, fmt.Errorf("generating response: %w", err)
		}

		// Last attempt - don't sleep.
		if attempt == l.retryConfig.MaxRetries {
			break
		}

		l.logger.Debug("retrying after transient error",
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generation canceled during backoff: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay *= 2
		if delay > l.retryConfig.MaxInterval {
			delay = l.retryConfig.MaxInterval
		}
	}

	return nil, fmt.Errorf("generation failed after %d attempts: %w", l.retryConfig.MaxRetries+1, lastErr)
}
