package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/contactform/backend/internal/model"
	"github.com/gorilla/csrf"
)

// Template names every Renderer must provide.
const (
	TemplateIndex    = "index"
	TemplateThankYou = "thankyou"
)

// pageData is the context every page template is executed with.
type pageData struct {
	Title      string
	Request    *http.Request
	CSRFField  template.HTML
	Form       url.Values
	Missing    []string
	Invalid    []string
	Submission *model.Submission
}

// Renderer executes named page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses templates/*.html from fsys and checks that the index
// and thankyou templates are defined.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("pages").ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, name := range []string{TemplateIndex, TemplateThankYou} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q not defined", name)
		}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template into a buffer and writes it with
// status. A template failure becomes a 500 before anything is written.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	data.Request = r
	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := rd.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "render template failed",
			"template", name,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
