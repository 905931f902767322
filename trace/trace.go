// Package trace manages the request id used to correlate the action logs of one request.
// The id travels in the context and in the ambient action store, so every action log
// written while serving the request carries it.
package trace

import (
	"context"

	"github.com/google/uuid"

	"github.com/gaborage/go-bricks-actionlog/logger"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// requestIDKey is the context key for request ID values
	requestIDKey contextKey = "request_id"
	// HeaderXRequestID is the standard header name for request tracing
	HeaderXRequestID = "X-Request-ID"
	// MetadataRequestID is the gRPC metadata key carrying the request ID
	MetadataRequestID = "x-request-id"
)

// NewRequestID generates a random request ID.
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID adds a request ID to the context and to its ambient action store.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = logger.WithAmbient(ctx, logger.RequestIDKey, requestID)
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID from context if present
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		return requestID, true
	}
	return "", false
}

// EnsureRequestID returns a context carrying a request ID: the existing one, the
// candidate when it is a usable value, or a freshly generated one.
func EnsureRequestID(ctx context.Context, candidate string) (context.Context, string) {
	if requestID, ok := RequestIDFromContext(ctx); ok {
		return ctx, requestID
	}
	requestID := candidate
	if !valid(requestID) {
		requestID = NewRequestID()
	}
	return WithRequestID(ctx, requestID), requestID
}

// valid accepts short printable ASCII ids so client supplied values cannot inject
// control characters into log lines.
func valid(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
