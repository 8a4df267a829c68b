package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/contactform/backend/internal/model"
	bolt "go.etcd.io/bbolt"
)

var submissionBucket = []byte("contact_form")

// errNoSchema is returned when a write reaches a store that was never migrated.
var errNoSchema = errors.New("contact_form bucket does not exist")

// BoltSubmissionRepository stores submissions in an embedded bbolt file.
// IDs come from the bucket sequence, so they are unique and increasing.
type BoltSubmissionRepository struct {
	db *bolt.DB
}

var _ Store = (*BoltSubmissionRepository)(nil)

// OpenBoltSubmissionRepository opens (or creates) the bbolt file at path.
func OpenBoltSubmissionRepository(path string) (*BoltSubmissionRepository, error) {
	if path == "" {
		path = "form_data.db"
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	return &BoltSubmissionRepository{db: db}, nil
}

// Ping reports an error once the database file has been closed.
func (r *BoltSubmissionRepository) Ping(ctx context.Context) error {
	return r.db.View(func(tx *bolt.Tx) error { return nil })
}

// Migrate creates the contact_form bucket if absent.
func (r *BoltSubmissionRepository) Migrate(ctx context.Context) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(submissionBucket)
		return err
	})
}

func (r *BoltSubmissionRepository) Close() error {
	return r.db.Close()
}

// Insert appends s under the next bucket sequence in a single write transaction.
func (r *BoltSubmissionRepository) Insert(ctx context.Context, s *model.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	var id uint64
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(submissionBucket)
		if b == nil {
			return errNoSchema
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		row := *s
		row.ID = int64(seq)
		val, err := json.Marshal(&row)
		if err != nil {
			return err
		}
		if err := b.Put(itob(seq), val); err != nil {
			return err
		}
		id = seq
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert contact_form: %w", err)
	}
	s.ID = int64(id)
	return nil
}

// FindByID returns the submission with the given id, or ErrNotFound.
func (r *BoltSubmissionRepository) FindByID(ctx context.Context, id int64) (*model.Submission, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	var s *model.Submission
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(submissionBucket)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(itob(uint64(id)))
		if v == nil {
			return ErrNotFound
		}
		s = &model.Submission{}
		return json.Unmarshal(v, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Count returns the number of stored submissions.
func (r *BoltSubmissionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(submissionBucket)
		if b == nil {
			return nil
		}
		n = int64(b.Stats().KeyN)
		return nil
	})
	return n, err
}

// itob encodes id big-endian so bucket iteration follows insertion order.
func itob(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}
