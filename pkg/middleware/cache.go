package middleware

import (
	"fmt"
	"net/http"
)

// CacheControl sets Cache-Control on GET responses. Menu data may be cached
// privately for maxAge seconds; a zero maxAge marks responses no-store, which
// the session and cart routes need since they echo user state.
func CacheControl(maxAge int) func(http.Handler) http.Handler {
	value := "no-store"
	if maxAge > 0 {
		value = fmt.Sprintf("private, max-age=%d", maxAge)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
