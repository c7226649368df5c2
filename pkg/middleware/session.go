package middleware

import (
	"context"
	"net/http"

	"github.com/utafrali/RestaurantGo/pkg/httputil"
)

type contextKeyType string

const (
	userIDKey contextKeyType = "user_id"
	roleKey   contextKeyType = "role"
)

// Principal is the signed-in user of the local session.
type Principal struct {
	UserID string
	Role   string
}

// PrincipalFunc reports the current session user, if any. The companion
// holds exactly one session, so there is no token on inbound requests.
type PrincipalFunc func(ctx context.Context) (Principal, bool)

// Session injects the current session user into the request context.
// Requests are let through when nobody is signed in; stores decide whether
// they need a session.
func Session(current PrincipalFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := current(r.Context()); ok {
				ctx := context.WithValue(r.Context(), userIDKey, p.UserID)
				ctx = context.WithValue(ctx, roleKey, p.Role)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects requests whose session user lacks one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				writeJSONError(w, http.StatusUnauthorized, "LOGIN_REQUIRED", "login required")
				return
			}
			if _, ok := roleSet[RoleFromContext(r.Context())]; !ok {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// RoleFromContext extracts the user role from the request context.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	httputil.WriteJSON(w, status, httputil.Response{
		Error: &httputil.ErrorResponse{Code: code, Message: message},
	})
}
