package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/selfevo/internal/ratelimit"
)

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxRetries        int
	BaseDelay         time.Duration // default 2s
	MaxRateLimitWaits int           // max consecutive rate limit waits (default 3)
	// RateLimitFallback is slept when a rate limit carries no reset time
	// (default 30s).
	RateLimitFallback time.Duration
	OnRetry           func(attempt int, delay time.Duration, err error)
	OnRateLimit       func(info *ratelimit.RateLimitInfo)
}

// RetryWithBackoff retries fn with exponential backoff.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, BaseDelay*8, ...
// Rate limit errors wait for the reset time and retry without consuming an
// attempt. Errors that IsRetryable rejects are returned at once.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if cfg.MaxRateLimitWaits == 0 {
		cfg.MaxRateLimitWaits = 3
	}
	if cfg.RateLimitFallback == 0 {
		cfg.RateLimitFallback = 30 * time.Second
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
			if rateLimitWaits >= cfg.MaxRateLimitWaits {
				return fmt.Errorf("max rate limit waits (%d) exceeded: %w", cfg.MaxRateLimitWaits, err)
			}

			if cfg.OnRateLimit != nil {
				cfg.OnRateLimit(rateLimitErr.Info)
			}

			if rateLimitErr.Info != nil && rateLimitErr.Info.Parseable {
				if waitErr := ratelimit.WaitForReset(ctx, rateLimitErr.Info); waitErr != nil {
					return fmt.Errorf("rate limit wait cancelled: %w", waitErr)
				}
			} else if waitErr := sleep(ctx, cfg.RateLimitFallback); waitErr != nil {
				return waitErr
			}
			continue
		}

		if !IsRetryable(err) {
			return err
		}
		if attempt >= cfg.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}
		if waitErr := sleep(ctx, delay); waitErr != nil {
			return waitErr
		}

		delay *= 2
		attempt++
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryClient wraps any ChatClient with RetryWithBackoff retry logic.
type RetryClient struct {
	Inner    ChatClient
	RetryCfg RetryConfig
}

// Chat delegates to the inner client, retrying on failure.
func (r *RetryClient) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	var out string
	err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		var err error
		out, err = r.Inner.Chat(ctx, messages, opts)
		return err
	})
	return out, err
}
