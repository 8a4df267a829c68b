package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/contactform/backend/internal/model"
	"github.com/contactform/backend/internal/repository"
)

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	repo      repository.SubmissionRepository
	publisher Publisher
	now       func() time.Time
}

// Option customises a SubmissionService.
type Option func(*submissionServiceImpl)

// WithPublisher announces every stored submission through p.
func WithPublisher(p Publisher) Option {
	return func(s *submissionServiceImpl) { s.publisher = p }
}

// NewSubmissionService creates a SubmissionService backed by the given repository.
func NewSubmissionService(repo repository.SubmissionRepository, opts ...Option) SubmissionService {
	s := &submissionServiceImpl{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stamps CreatedAt and persists the submission. Once the row is
// committed a publish failure is only logged.
func (s *submissionServiceImpl) Submit(ctx context.Context, sub *model.Submission) error {
	sub.CreatedAt = s.now().UTC()
	if err := s.repo.Insert(ctx, sub); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSubmission(ctx, sub); err != nil {
			slog.WarnContext(ctx, "publish submission failed", "submission_id", sub.ID, "error", err)
		}
	}
	return nil
}
