// Package ratelimit detects rate limiting in chat API responses and works out
// when the next request may be sent.
package ratelimit

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// ResetBuffer is added to every parsed reset time to avoid retrying early.
	ResetBuffer = 1 * time.Second

	// BarePatternMaxContentSize is the maximum body size scanned for bare
	// rate limit phrases. Larger bodies are model output, not error payloads.
	BarePatternMaxContentSize = 500
)

// Sources of a parsed reset time.
const (
	SourceRetryAfter  = "retry-after"
	SourceResetHeader = "reset-header"
	SourceBody        = "body"
)

// RateLimitInfo contains parsed rate limit information
type RateLimitInfo struct {
	// Detected indicates if a rate limit was found
	Detected bool

	// Parseable indicates if the reset time could be parsed
	Parseable bool

	// ResetEpoch is the Unix timestamp when rate limit resets (with buffer)
	ResetEpoch int64

	// ResetHuman is the human-readable reset time
	ResetHuman string

	// Source names where the reset time came from
	Source string
}

// Headers consulted after Retry-After, in order. Values use Go duration
// syntax ("1s", "6m0s").
var resetHeaders = []string{
	"X-Ratelimit-Reset-Requests",
	"X-Ratelimit-Reset-Tokens",
}

var (
	// "try again in 20s", "retry after 1.5 seconds", "Please try again in 2m30s"
	retryInRE = regexp.MustCompile(`(?i)(?:try again|retry)\s+(?:in|after)\s+(\d+(?:\.\d+)?(?:ms|h|m|s)(?:\d+(?:\.\d+)?(?:m|s))*|\d+(?:\.\d+)?\s*(?:seconds?|secs?|minutes?|mins?))`)

	barePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)rate limit exceeded`),
		regexp.MustCompile(`(?i)rate limited`),
		regexp.MustCompile(`(?i)too many requests`),
		regexp.MustCompile(`(?i)quota exceeded`),
	}
)

// FindRateLimitPattern searches an error body for a rate limit message.
// Returns the wait it names (zero if none) and whether any rate limit phrase
// was found.
func FindRateLimitPattern(content string) (wait time.Duration, detected bool) {
	if m := retryInRE.FindStringSubmatch(content); m != nil {
		if d, err := parseWait(m[1]); err == nil {
			return d, true
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

// parseWait accepts Go duration syntax or "<n> seconds" / "<n> minutes".
func parseWait(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	fields := strings.Fields(strings.NewReplacer("seconds", " s", "second", " s", "secs", " s", "sec", " s",
		"minutes", " m", "minute", " m", "mins", " m", "min", " m").Replace(s))
	if len(fields) != 2 {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, err
	}
	unit := time.Second
	if fields[1] == "m" {
		unit = time.Minute
	}
	return time.Duration(n * float64(unit)), nil
}

// ParseRetryAfter parses a Retry-After header value, either delay seconds or
// an HTTP date, into an absolute reset time.
func ParseRetryAfter(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return time.Time{}, false
		}
		return now.Add(time.Duration(secs) * time.Second), true
	}
	if t, err := http.ParseTime(value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FromResponse inspects a finished HTTP exchange. It returns nil when the
// response is not a rate limit. A 429 without a usable reset time is
// reported as detected but not parseable.
func FromResponse(statusCode int, header http.Header, body []byte, now time.Time) *RateLimitInfo {
	wait, bodyDetected := FindRateLimitPattern(string(body))
	if statusCode != http.StatusTooManyRequests && !bodyDetected {
		return nil
	}
	if statusCode != http.StatusTooManyRequests && statusCode < 400 {
		return nil
	}

	if reset, ok := ParseRetryAfter(header.Get("Retry-After"), now); ok {
		return newInfo(reset, SourceRetryAfter)
	}
	for _, h := range resetHeaders {
		if d, err := time.ParseDuration(strings.TrimSpace(header.Get(h))); err == nil && d >= 0 {
			return newInfo(now.Add(d), SourceResetHeader)
		}
	}
	if wait > 0 {
		return newInfo(now.Add(wait), SourceBody)
	}
	return &RateLimitInfo{Detected: true}
}

func newInfo(reset time.Time, source string) *RateLimitInfo {
	reset = reset.Add(ResetBuffer)
	return &RateLimitInfo{
		Detected:   true,
		Parseable:  true,
		ResetEpoch: reset.Unix(),
		ResetHuman: reset.Format("2006-01-02 15:04:05 MST"),
		Source:     source,
	}
}
