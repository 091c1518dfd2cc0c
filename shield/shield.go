// Package shield is the HTTP middleware in front of the assistant's screens
// and JSON API: security headers, body limits, request tracing, per-IP rate
// limits on analysis endpoints, flash messages and HEAD handling.
//
//	r := chi.NewRouter()
//	for _, mw := range shield.Stack(shield.DefaultConfig()) {
//	    r.Use(mw)
//	}
package shield

import (
	"context"
	"net/http"
)

type contextKey string

const (
	// LoggerKey is the context key for the per-request structured logger.
	LoggerKey contextKey = "shield_logger"

	// FlashKey is the context key for flash messages.
	FlashKey contextKey = "shield_flash"
)

// FlashMessage is a one-time notification carried across a redirect.
type FlashMessage struct {
	Type    string // "success" or "error"
	Message string
}

// GetFlash retrieves the flash message from the request context.
func GetFlash(ctx context.Context) *FlashMessage {
	v, _ := ctx.Value(FlashKey).(*FlashMessage)
	return v
}

// Config selects what Stack installs.
type Config struct {
	Headers HeaderConfig
	// MaxBody caps request bodies in bytes. Pasted markup can be large.
	MaxBody int64
	// Limits maps "METHOD /path" to a per-IP budget. Empty disables limiting.
	Limits map[string]RateLimit
}

// DefaultConfig allows 4 MiB bodies and no rate limits.
func DefaultConfig() Config {
	return Config{
		Headers: DefaultHeaders(),
		MaxBody: 4 << 20,
	}
}

// Stack returns the middleware in order: HeadToGet, SecurityHeaders,
// MaxBody, TraceID, rate limiting (when configured), Flash.
func Stack(cfg Config) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		HeadToGet,
		SecurityHeaders(cfg.Headers),
		MaxBody(cfg.MaxBody),
		TraceID,
	}
	if len(cfg.Limits) > 0 {
		stack = append(stack, NewRateLimiter(cfg.Limits).Middleware)
	}
	return append(stack, Flash)
}
