package handler

import (
	"io/fs"
	"net/http"
)

// RouterConfig wires the handlers and middleware served by NewRouter.
type RouterConfig struct {
	Form   *FormHandler
	Health *Handler
	Static fs.FS

	// RateLimiter guards POST /submit-form/ when non-nil.
	RateLimiter *RateLimiter

	// CSRFKey enables CSRF protection when non-empty.
	CSRFKey       []byte
	SecureCookies bool
}

// NewRouter builds the route table and wraps it in the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	var submit http.Handler = http.HandlerFunc(cfg.Form.Submit)
	if cfg.RateLimiter != nil {
		submit = cfg.RateLimiter.Middleware(submit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", cfg.Form.Index)
	mux.Handle("POST /submit-form/{$}", submit)
	if cfg.Static != nil {
		mux.Handle("GET /static/", Static("/static/", cfg.Static))
	}
	if cfg.Health != nil {
		mux.HandleFunc("GET /healthz", cfg.Health.Health)
	}

	var h http.Handler = mux
	if len(cfg.CSRFKey) > 0 {
		h = CSRF(cfg.CSRFKey, cfg.SecureCookies)(h)
	}
	h = SecurityHeaders(h)
	h = RequestLogger(h)
	return RequestID(h)
}
