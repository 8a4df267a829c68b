package repository

import (
	"context"
	"fmt"

	"github.com/contactform/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// SubmissionRepository defines the persistence interface for contact submissions.
// Rows are append-only: there is no update or delete.
type SubmissionRepository interface {
	// Insert appends one row and populates s.ID with the assigned identifier.
	Insert(ctx context.Context, s *model.Submission) error
	FindByID(ctx context.Context, id int64) (*model.Submission, error)
	Count(ctx context.Context) (int64, error)
}

// Store is a SubmissionRepository that owns its backing storage.
type Store interface {
	SubmissionRepository
	DB
	// Migrate creates the schema if absent. It is idempotent.
	Migrate(ctx context.Context) error
	Close() error
}

// Options selects and configures a Store driver.
type Options struct {
	Driver      string
	DatabaseURL string
	BoltPath    string
}

// Open connects to the configured driver. The schema is not touched; call Migrate.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverPostgres, "":
		pool, err := NewPool(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPgSubmissionRepository(pool), nil
	case DriverBolt:
		return OpenBoltSubmissionRepository(opts.BoltPath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
