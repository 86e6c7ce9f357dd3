// Package ctxutil carries request-scoped identifiers through context.
package ctxutil

import (
	"context"
)

type ctxKey string

const (
	adminKey     ctxKey = "admin_username"
	requestIDKey ctxKey = "request_id"
)

// WithAdmin stores the authenticated admin username in the context.
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminKey, username)
}

// AdminFromCtx extracts the admin username from the context.
// Returns "" and false if no admin is authenticated.
func AdminFromCtx(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(adminKey).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
