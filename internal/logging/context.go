package logging

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const invocationIDKey = contextKey("invocation-id")

// WithInvocationID stores the invocation ID in ctx. An empty id is replaced
// with a freshly generated UUID.
func WithInvocationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationIDFromContext extracts the invocation ID from the context.
// Returns empty string if not found.
func InvocationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(invocationIDKey).(string); ok {
		return id
	}
	return ""
}
