package model

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Form field names posted by the contact form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// RequiredFields lists the form fields every submission must carry, in form order.
var RequiredFields = []string{FieldName, FieldEmail, FieldSubject, FieldMessage}

// Submission represents one contact form entry stored as a row.
type Submission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationError reports the required fields absent from a submission and
// the fields whose value is not storable text.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid text in fields: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// SubmissionFromForm builds a Submission from posted form values.
// A field must be present but may be empty; email is taken as-is.
// Values must be valid UTF-8 without NUL bytes so every store keeps them byte for byte.
func SubmissionFromForm(form url.Values) (*Submission, error) {
	var missing, invalid []string
	for _, f := range RequiredFields {
		if _, ok := form[f]; !ok {
			missing = append(missing, f)
			continue
		}
		if !storableText(form.Get(f)) {
			invalid = append(invalid, f)
		}
	}
	if len(missing) > 0 || len(invalid) > 0 {
		return nil, &ValidationError{Missing: missing, Invalid: invalid}
	}

	return &Submission{
		Name:    form.Get(FieldName),
		Email:   form.Get(FieldEmail),
		Subject: form.Get(FieldSubject),
		Message: form.Get(FieldMessage),
	}, nil
}

func storableText(v string) bool {
	return utf8.ValidString(v) && !strings.ContainsRune(v, 0)
}
