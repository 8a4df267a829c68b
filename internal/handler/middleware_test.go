package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/csrf"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// --- SecurityHeaders ---

func TestSecurityHeaders_SetsAllHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"X-XSS-Protection":       "0",
		"Permissions-Policy":     "camera=(), microphone=(), geolocation=()",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s: want %q, got %q", name, want, got)
		}
	}
}

func TestSecurityHeaders_CSP(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	policy := rec.Header().Get("Content-Security-Policy")
	if policy == "" {
		t.Fatal("Content-Security-Policy header not set")
	}
	for _, d := range []string{"default-src", "form-action", "frame-ancestors 'none'"} {
		if !strings.Contains(policy, d) {
			t.Errorf("CSP missing directive %q: %s", d, policy)
		}
	}
}

func TestSecurityHeaders_PassesThrough(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	SecurityHeaders(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if !called {
		t.Error("inner handler was not called")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", rec.Code)
	}
}

// --- CSRF ---

func TestCSRF_SafeMethodPasses(t *testing.T) {
	mw := CSRF([]byte(strings.Repeat("k", 32)), false)

	var field string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		field = string(csrf.TemplateField(r))
	})
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(field, `name="_csrf"`) {
		t.Errorf("expected CSRF field in request context, got %q", field)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected CSRF cookie to be issued")
	}
}

func TestCSRF_UnsafeMethodWithoutToken(t *testing.T) {
	mw := CSRF([]byte(strings.Repeat("k", 32)), false)

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, httptest.NewRequest("POST", "/submit-form/", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if called {
		t.Error("inner handler must not run without a token")
	}
}

// --- RateLimiter ---

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(10)
	defer rl.Close()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("POST", "/submit-form/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(5)
	defer rl.Close()
	handler := rl.Middleware(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest("POST", "/submit-form/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 on 6th request, got %d", last.Code)
	}
	if ra := last.Header().Get("Retry-After"); ra == "" {
		t.Error("expected Retry-After header on 429 response")
	}
}

func TestRateLimiter_DifferentIPsAreIndependent(t *testing.T) {
	rl := NewRateLimiter(2)
	defer rl.Close()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("different IP should not be rate limited, got %d", rec.Code)
	}
}

func TestRateLimiter_XForwardedFor_SpoofedLeftmostIgnored(t *testing.T) {
	rl := NewRateLimiter(1)
	defer rl.Close()
	handler := rl.Middleware(okHandler())

	req1 := httptest.NewRequest("POST", "/", nil)
	req1.RemoteAddr = "10.0.0.99:1234"
	req1.Header.Set("X-Forwarded-For", "203.0.113.50")
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("first request should succeed, got %d", rec1.Code)
	}

	// The proxy appends the real client last, so a forged leftmost entry changes nothing.
	req2 := httptest.NewRequest("POST", "/", nil)
	req2.RemoteAddr = "10.0.0.99:1234"
	req2.Header.Set("X-Forwarded-For", "9.9.9.9, 203.0.113.50")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)

	if rec2.Code != http.StatusTooManyRequests {
		t.Errorf("spoofed leftmost IP should not bypass rate limit, got %d", rec2.Code)
	}
}

func TestRateLimiter_PruneForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1)
	defer rl.Close()
	handler := rl.Middleware(okHandler())

	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rl.prune(time.Now().Add(2 * time.Minute))

	rl.mu.Lock()
	n := len(rl.clients)
	rl.mu.Unlock()
	if n != 0 {
		t.Errorf("expected idle client to be forgotten, %d remain", n)
	}
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1)
	rl.Close()
	rl.Close()
}
