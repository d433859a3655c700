package middleware

import (
	"context"
	"net/http"

	"github.com/SevenSinz/warbler/internal/auth"
	"github.com/SevenSinz/warbler/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"
)

// Sessions resolves the session cookie on every request and, when it maps
// to a live session, loads the current user ID into the request context.
// Absence of the cookie means the request stays anonymous.
func Sessions(sm *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := sm.UserID(r); ok {
				ctx := context.WithValue(r.Context(), UserIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth gates a route to authenticated callers. Anonymous requests
// get a flashed notice and a 302 back to the homepage.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r.Context()); !ok {
			auth.Flash(w, r, "Access unauthorized.")
			response.Redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID extracts the current user ID from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
