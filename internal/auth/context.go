package auth

import (
	"context"

	"github.com/inkpress/inkpress/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const currentUserKey contextKey = "current_user"

// ContextWithUser attaches the current user to the context. The user is
// request-scoped: it is resolved from the session on every request and
// never cached across requests.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// UserFromContext retrieves the current user from the context.
// Returns nil for anonymous requests.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(currentUserKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}
