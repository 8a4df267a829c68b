package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/contactform/backend/internal/model"
	"github.com/contactform/backend/internal/service"
)

const maxFormBytes = 1 << 20

// FormHandler serves the contact form page and accepts its submissions.
type FormHandler struct {
	submissions service.SubmissionService
	pages       *Renderer
}

// NewFormHandler creates a FormHandler with the given service and renderer.
func NewFormHandler(submissions service.SubmissionService, pages *Renderer) *FormHandler {
	return &FormHandler{submissions: submissions, pages: pages}
}

// Index handles GET /.
func (h *FormHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, TemplateIndex, pageData{Title: "Contact us"})
}

// Submit handles POST /submit-form/.
// name, email, subject and message must all be present (empty is allowed)
// and hold valid UTF-8 text; otherwise the form is shown again with 422 and
// nothing is stored.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if err := parseForm(r); err != nil {
		slog.InfoContext(ctx, "unparseable form body",
			"request_id", RequestIDFromContext(ctx),
			"error", err,
		)
		h.pages.Render(w, r, http.StatusUnprocessableEntity, TemplateIndex, pageData{
			Title:   "Contact us",
			Missing: model.RequiredFields,
		})
		return
	}

	sub, err := model.SubmissionFromForm(r.PostForm)
	if err != nil {
		data := pageData{
			Title:   "Contact us",
			Form:    r.PostForm,
			Missing: model.RequiredFields,
		}
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			data.Missing = verr.Missing
			data.Invalid = verr.Invalid
		}
		h.pages.Render(w, r, http.StatusUnprocessableEntity, TemplateIndex, data)
		return
	}

	if err := h.submissions.Submit(ctx, sub); err != nil {
		slog.ErrorContext(ctx, "store submission failed",
			"request_id", RequestIDFromContext(ctx),
			"error", err,
		)
		http.Error(w, "could not save your message, please try again later", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(ctx, "submission stored",
		"request_id", RequestIDFromContext(ctx),
		"submission_id", sub.ID,
	)
	h.pages.Render(w, r, http.StatusOK, TemplateThankYou, pageData{
		Title:      "Thank you",
		Submission: sub,
	})
}

// parseForm fills r.PostForm from a urlencoded or multipart body.
func parseForm(r *http.Request) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormBytes)
	}
	return r.ParseForm()
}
