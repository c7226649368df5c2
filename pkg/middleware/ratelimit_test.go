package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/menu?q=steak", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter_WithinBurst(t *testing.T) {
	var buf bytes.Buffer
	handler := NewRateLimiter(10, 10, newTestLogger(&buf)).Middleware(okHandler())

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestFrom("127.0.0.1:5000"))
		assert.Equal(t, http.StatusOK, rr.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiter_ExceedingBurstReturns429(t *testing.T) {
	var buf bytes.Buffer
	handler := NewRateLimiter(0.001, 3, newTestLogger(&buf)).Middleware(okHandler())

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestFrom("127.0.0.1:5000"))
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests {
			assert.Contains(t, rr.Body.String(), "RATE_LIMITED")
			assert.Equal(t, "1", rr.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{200, 200, 200, 429}, codes)
	assert.Contains(t, buf.String(), "rate limit exceeded")
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	var buf bytes.Buffer
	handler := NewRateLimiter(0.001, 1, newTestLogger(&buf)).Middleware(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestFrom("127.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, requestFrom("127.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, requestFrom("127.0.0.1:6000"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRateLimiter_CleanupEvictsIdleClients(t *testing.T) {
	var buf bytes.Buffer
	l := NewRateLimiter(10, 10, newTestLogger(&buf))
	now := time.Now()
	l.now = func() time.Time { return now }

	l.allow("127.0.0.1")
	l.allow("127.0.0.2")
	assert.Equal(t, 2, l.len())

	now = now.Add(2 * time.Minute)
	l.allow("127.0.0.2")
	now = now.Add(2 * time.Minute)
	l.cleanup()

	assert.Equal(t, 1, l.len())
}

func TestClientIP_IgnoresForwardingHeaders(t *testing.T) {
	req := requestFrom("127.0.0.1:5000")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "127.0.0.1", clientIP(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(req))
}
