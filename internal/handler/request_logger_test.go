package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_Generates(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	RequestID(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("expected generated uuid, got %q", seen)
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("response header %q does not match context %q", rec.Header().Get(RequestIDHeader), seen)
	}
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "edge-123")
	RequestID(inner).ServeHTTP(httptest.NewRecorder(), req)

	if seen != "edge-123" {
		t.Errorf("expected incoming ID to be reused, got %q", seen)
	}
}

func TestRequestID_RejectsOversized(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	RequestID(inner).ServeHTTP(httptest.NewRecorder(), req)

	if len(seen) > maxRequestIDLen {
		t.Errorf("oversized ID should be replaced, got %d bytes", len(seen))
	}
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	req := httptest.NewRequest("POST", "/submit-form/", nil)
	RequestID(RequestLogger(inner)).ServeHTTP(httptest.NewRecorder(), req)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log: %v: %s", err, buf.String())
	}
	if rec["msg"] != "request" || rec["path"] != "/submit-form/" {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec["status"] != float64(http.StatusUnprocessableEntity) {
		t.Errorf("expected status 422, got %v", rec["status"])
	}
	if id, _ := rec["request_id"].(string); id == "" {
		t.Error("expected request_id in log record")
	}
}
