package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func principal(userID, role string) PrincipalFunc {
	return func(context.Context) (Principal, bool) {
		if userID == "" {
			return Principal{}, false
		}
		return Principal{UserID: userID, Role: role}, true
	}
}

func TestSession_InjectsPrincipal(t *testing.T) {
	var gotID, gotRole string
	handler := Session(principal("7", "admin"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "7", gotID)
	assert.Equal(t, "admin", gotRole)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		role   string
		want   int
	}{
		{"signed out", "", "", http.StatusUnauthorized},
		{"customer", "1", "customer", http.StatusForbidden},
		{"admin", "1", "admin", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Session(principal(tt.userID, tt.role))(
				RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				})),
			)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"an internal error occurred"}}`, rec.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestCacheControl(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	CacheControl(60)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	assert.Equal(t, "private, max-age=60", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	CacheControl(0)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	CacheControl(60)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/menu", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
