package handler

import (
	"github.com/contactform/backend/internal/repository"
)

// HealthCheck is a named dependency probed by /healthz.
type HealthCheck struct {
	Name string
	DB   repository.DB
}

type Handler struct {
	checks []HealthCheck
}

func New(checks ...HealthCheck) *Handler {
	return &Handler{checks: checks}
}
