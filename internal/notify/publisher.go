// Package notify publishes stored contact submissions to a Redis list so
// other processes (mailers, ticketing bridges) can react to them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/contactform/backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventSubmitted is the event type carried by every published envelope.
const EventSubmitted = "contact.submitted"

// DefaultQueue is the Redis list used when none is configured.
const DefaultQueue = "contact:submissions"

// Event is the JSON envelope pushed onto the queue.
type Event struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Submission  *model.Submission `json:"submission"`
	PublishedAt time.Time         `json:"published_at"`
}

// RedisPublisher LPUSHes submission events onto a Redis list.
type RedisPublisher struct {
	rdb       *redis.Client
	queueName string
}

// NewRedisPublisher creates a publisher targeting the given list.
func NewRedisPublisher(rdb *redis.Client, queueName string) *RedisPublisher {
	if queueName == "" {
		queueName = DefaultQueue
	}
	return &RedisPublisher{rdb: rdb, queueName: queueName}
}

// Dial parses a redis:// URL and returns a publisher for it.
func Dial(redisURL, queueName string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisPublisher(redis.NewClient(opt), queueName), nil
}

func newEvent(s *model.Submission, now time.Time) Event {
	return Event{
		ID:          uuid.New().String(),
		Type:        EventSubmitted,
		Submission:  s,
		PublishedAt: now.UTC(),
	}
}

// PublishSubmission serialises s and pushes it to the queue.
func (p *RedisPublisher) PublishSubmission(ctx context.Context, s *model.Submission) error {
	event := newEvent(s, time.Now())
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal submission event: %w", err)
	}

	if err := p.rdb.LPush(ctx, p.queueName, body).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}

	slog.InfoContext(ctx, "published submission event",
		"event_id", event.ID,
		"submission_id", s.ID,
		"queue", p.queueName,
	)
	return nil
}

// Ping checks the Redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}

// Close closes the underlying client.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
