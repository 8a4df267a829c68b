package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/contactform/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

// Ensure PgSubmissionRepository implements Store at compile time.
var _ Store = (*PgSubmissionRepository)(nil)

// Ping は DB 接続を確認する（DB インターフェース実装）
func (r *PgSubmissionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Migrate applies the embedded migrations.
func (r *PgSubmissionRepository) Migrate(ctx context.Context) error {
	_, err := ApplyMigrations(ctx, r.pool)
	return err
}

// Close releases every pooled connection.
func (r *PgSubmissionRepository) Close() error {
	r.pool.Close()
	return nil
}

// Insert writes one contact_form row inside its own transaction on a
// dedicated pooled connection. The connection goes back to the pool on
// every return path, and an uncommitted transaction is rolled back.
func (r *PgSubmissionRepository) Insert(ctx context.Context, s *model.Submission) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	if s.CreatedAt.IsZero() {
		err = tx.QueryRow(ctx,
			`INSERT INTO contact_form (name, email, subject, message)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			s.Name, s.Email, s.Subject, s.Message,
		).Scan(&id, &s.CreatedAt)
	} else {
		err = tx.QueryRow(ctx,
			`INSERT INTO contact_form (name, email, subject, message, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			s.Name, s.Email, s.Subject, s.Message, s.CreatedAt,
		).Scan(&id)
	}
	if err != nil {
		return fmt.Errorf("insert contact_form: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.ID = id
	return nil
}

// FindByID returns the submission with the given id, or ErrNotFound.
func (r *PgSubmissionRepository) FindByID(ctx context.Context, id int64) (*model.Submission, error) {
	var s model.Submission
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, subject, message, created_at
		 FROM contact_form WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Count returns the number of stored submissions.
func (r *PgSubmissionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_form`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
