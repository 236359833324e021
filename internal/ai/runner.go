// Package ai talks to the chat model that answers stage prompts and grades
// its own responses.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/CodexForgeBR/selfevo/internal/ratelimit"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System returns a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User returns a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// ChatOptions tunes a single completion. Zero values use client defaults.
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
	// ForceJSON asks the endpoint for a JSON object response.
	ForceJSON bool
}

// ChatClient defines the interface for chat completion backends.
type ChatClient interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
}

// ChatFunc adapts a function to ChatClient.
type ChatFunc func(ctx context.Context, messages []Message, opts ChatOptions) (string, error)

// Chat calls f.
func (f ChatFunc) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	return f(ctx, messages, opts)
}

var (
	// ErrNoAPIKey is returned before any request when no key is configured.
	ErrNoAPIKey = errors.New("api key not configured")

	// ErrNoChoices is returned when a completion response has no choices.
	ErrNoChoices = errors.New("no completion returned")
)

// RateLimitError is returned when the endpoint rejects a request for rate
// limiting.
type RateLimitError struct {
	Info          *ratelimit.RateLimitInfo
	UnderlyingErr error
}

func (e *RateLimitError) Error() string {
	if e.Info != nil && e.Info.Parseable {
		return fmt.Sprintf("rate limit detected (resets at %s)", e.Info.ResetHuman)
	}
	return "rate limit detected (reset time unknown)"
}

func (e *RateLimitError) Unwrap() error {
	return e.UnderlyingErr
}

// StatusError is a non-success HTTP response from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether repeating the request may succeed.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusRequestTimeout
}

// IsRetryable reports whether err is worth another attempt. Configuration
// errors and client-side HTTP errors are permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoAPIKey) || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}
