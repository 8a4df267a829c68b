package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/crewjam/csp"
	"github.com/gorilla/csrf"
)

// CSRFFieldName is the hidden form field carrying the CSRF token.
const CSRFFieldName = "_csrf"

var contentSecurityPolicy = csp.Header{
	DefaultSrc:     []string{"'self'"},
	ScriptSrc:      []string{"'self'"},
	StyleSrc:       []string{"'self'"},
	FormAction:     []string{"'self'"},
	FrameAncestors: []string{"'none'"},
}.String()

// SecurityHeaders adds security response headers (CSP, X-Frame-Options, etc.)
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-XSS-Protection", "0")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		next.ServeHTTP(w, r)
	})
}

// CSRF returns middleware that rejects unsafe requests lacking a valid
// token in the _csrf form field. When secure is false the cookie is sent
// over plain HTTP and the TLS-only Referer check is skipped.
func CSRF(authKey []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.CookieName("contact_csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "csrf check failed",
		"request_id", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"reason", csrf.FailureReason(r),
	)
	http.Error(w, "invalid or missing form token, reload the page and try again", http.StatusForbidden)
}

// RateLimiter provides IP-based rate limiting using a sliding window.
type RateLimiter struct {
	maxPerMinute      int
	trustedProxyCount int
	mu                sync.Mutex
	clients           map[string]*clientWindow
	stop              chan struct{}
	stopOnce          sync.Once
}

type clientWindow struct {
	timestamps []time.Time
}

// NewRateLimiter creates a rate limiter with the given requests-per-minute limit.
// Assumes a single trusted reverse proxy by default. Call Close to stop the
// background cleanup.
func NewRateLimiter(maxPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		maxPerMinute:      maxPerMinute,
		trustedProxyCount: 1,
		clients:           make(map[string]*clientWindow),
		stop:              make(chan struct{}),
	}
	go rl.cleanupLoop(5 * time.Minute)
	return rl
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.prune(now)
		}
	}
}

// prune drops timestamps older than one minute and forgets idle clients.
func (rl *RateLimiter) prune(now time.Time) {
	windowStart := now.Add(-time.Minute)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, cw := range rl.clients {
		cw.trim(windowStart)
		if len(cw.timestamps) == 0 {
			delete(rl.clients, ip)
		}
	}
}

// trim filters in place on the shared backing array.
func (cw *clientWindow) trim(windowStart time.Time) {
	valid := cw.timestamps[:0]
	for _, ts := range cw.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	cw.timestamps = valid
}

// Middleware returns an http.Handler that enforces rate limits.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		now := time.Now()

		rl.mu.Lock()
		cw, ok := rl.clients[ip]
		if !ok {
			cw = &clientWindow{}
			rl.clients[ip] = cw
		}
		cw.trim(now.Add(-time.Minute))

		if len(cw.timestamps) >= rl.maxPerMinute {
			oldest := cw.timestamps[0]
			retryAfter := oldest.Add(time.Minute).Sub(now)
			rl.mu.Unlock()

			slog.WarnContext(r.Context(), "rate limit exceeded",
				"request_id", RequestIDFromContext(r.Context()),
				"client_ip", ip,
			)
			w.Header().Set("Retry-After", retryAfterSeconds(retryAfter))
			http.Error(w, "too many submissions, please try again later", http.StatusTooManyRequests)
			return
		}

		cw.timestamps = append(cw.timestamps, now)
		rl.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP extracts the real client IP, reading from the rightmost trusted
// proxy position in X-Forwarded-For to prevent spoofing.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		idx := len(parts) - rl.trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
