package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxRole       contextKey = "actor_role"
	ctxGuestToken contextKey = "guest_token"
	ctxRequestID  contextKey = "request_id"
)

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// WithUserID records the authenticated caller. Guests never carry one.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withValue(ctx, ctxUserID, userID)
}

func UserIDFromContext(ctx context.Context) string { return stringValue(ctx, ctxUserID) }

// UserUUIDFromContext returns the authenticated user id, or uuid.Nil for guests.
func UserUUIDFromContext(ctx context.Context) uuid.UUID {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func WithRole(ctx context.Context, role string) context.Context {
	return withValue(ctx, ctxRole, role)
}

func RoleFromContext(ctx context.Context) string { return stringValue(ctx, ctxRole) }

// WithGuestToken records the token identifying an anonymous cart.
func WithGuestToken(ctx context.Context, token string) context.Context {
	return withValue(ctx, ctxGuestToken, token)
}

func GuestTokenFromContext(ctx context.Context) string { return stringValue(ctx, ctxGuestToken) }

func WithRequestID(ctx context.Context, id string) context.Context {
	return withValue(ctx, ctxRequestID, id)
}

func RequestIDFromContext(ctx context.Context) string { return stringValue(ctx, ctxRequestID) }
