package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestStatic_ServesFile(t *testing.T) {
	fsys := fstest.MapFS{
		"style.css": {Data: []byte("body{color:red}")},
	}
	rec := httptest.NewRecorder()
	Static("/static/", fsys).ServeHTTP(rec, httptest.NewRequest("GET", "/static/style.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "body{color:red}" {
		t.Errorf("expected verbatim file, got %q", rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css") {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Error("expected Cache-Control header")
	}
}

func TestStatic_NoDirectoryListing(t *testing.T) {
	fsys := fstest.MapFS{
		"css/site.css": {Data: []byte("x")},
	}
	rec := httptest.NewRecorder()
	Static("/static/", fsys).ServeHTTP(rec, httptest.NewRequest("GET", "/static/css/", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for directory, got %d", rec.Code)
	}
}

func TestStatic_Missing(t *testing.T) {
	rec := httptest.NewRecorder()
	Static("/static/", fstest.MapFS{}).ServeHTTP(rec, httptest.NewRequest("GET", "/static/nope.css", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
