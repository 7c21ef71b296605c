package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userIDKey is the context key the auth middleware stores the resolved
// user identity under.
const userIDKey contextKey = "user_id"

// ContextWithUserID returns a context carrying the authenticated user's ID.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user's ID.
// Returns empty string if the request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// MustUserIDFromContext retrieves the authenticated user's ID.
// Panics if absent (use only behind the auth middleware).
func MustUserIDFromContext(ctx context.Context) string {
	id := UserIDFromContext(ctx)
	if id == "" {
		panic("user identity not found - ensure auth middleware is applied")
	}
	return id
}
