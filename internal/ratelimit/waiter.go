package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// WaitForReset blocks until the reset time in info has passed, polling less
// often while the reset is far away. Respects context cancellation.
func WaitForReset(ctx context.Context, info *RateLimitInfo) error {
	if info == nil || !info.Parseable {
		return fmt.Errorf("cannot wait: rate limit info is nil or not parseable")
	}

	resetTime := time.Unix(info.ResetEpoch, 0)
	remaining := time.Until(resetTime)
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(pollInterval(remaining))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			remaining = time.Until(resetTime)
			if remaining <= 0 {
				return nil
			}
			timer.Reset(pollInterval(remaining))
		}
	}
}

// pollInterval never sleeps past the reset and wakes more often near it.
func pollInterval(remaining time.Duration) time.Duration {
	var step time.Duration
	switch {
	case remaining < 60*time.Second:
		step = 5 * time.Second
	case remaining < 5*time.Minute:
		step = 30 * time.Second
	default:
		step = 60 * time.Second
	}
	if remaining < step {
		return remaining
	}
	return step
}

// FormatDuration formats a wait into a short human-readable form.
// Examples: "2h 15m", "45m 30s", "30s"
func FormatDuration(d time.Duration) string {
	seconds := int64(d.Round(time.Second) / time.Second)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ")
}
