package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/model"
)

// UserResolver resolves a session token to its user.
// Anonymous or dangling sessions yield (nil, nil).
type UserResolver interface {
	UserBySession(ctx context.Context, token string) (*model.User, error)
}

// TokenReader extracts the session token from a request.
type TokenReader interface {
	ReadToken(r *http.Request) string
}

// CurrentUserConfig holds dependencies for the current-user middleware.
type CurrentUserConfig struct {
	Logger   *slog.Logger
	Sessions TokenReader
	Users    UserResolver
}

// CurrentUser resolves the session cookie and attaches the current user to
// the request context. It never rejects a request: resolution failures are
// logged and the request proceeds anonymously. Route guards that need an
// authenticated user sit behind RequireAuth.
func CurrentUser(cfg CurrentUserConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cfg.Sessions.ReadToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := cfg.Users.UserBySession(r.Context(), token)
			if err != nil {
				cfg.Logger.Error("resolve session user",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth guards session-gated routes, rejecting anonymous requests
// with a 401 JSON body. Must be applied after CurrentUser.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserFromContext(r.Context()) == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Authentication required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
