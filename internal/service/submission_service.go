package service

import (
	"context"

	"github.com/contactform/backend/internal/model"
)

// SubmissionService defines the business logic for contact form submissions.
type SubmissionService interface {
	// Submit stores a new submission. s.ID and s.CreatedAt are populated by
	// the implementation.
	Submit(ctx context.Context, s *model.Submission) error
}

// Publisher announces stored submissions to downstream consumers.
type Publisher interface {
	PublishSubmission(ctx context.Context, s *model.Submission) error
}
