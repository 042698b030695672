// Package queue provides maintenance job operations using goqite.
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"maragu.dev/goqite"
)

// Job kinds.
const (
	KindExpireOutput = "expire_output" // delete one rendered output
	KindReindex      = "reindex"       // rebuild the font index
)

// DefaultMaxAttempts bounds retries of a failing job.
const DefaultMaxAttempts = 3

var errUnknownKind = errors.New("unknown job kind")

// Job is a maintenance task.
type Job struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Output      string    `json:"output,omitempty"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"max_attempts"`
	CreatedAt   time.Time `json:"created_at"`
}

// Queue manages maintenance jobs using goqite.
type Queue struct {
	db    *sql.DB
	queue *goqite.Queue
	name  string
}

// NewQueue creates a queue, setting up the goqite table on first use.
func NewQueue(db *sql.DB, name string) (*Queue, error) {
	ctx := context.Background()

	var tables int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'goqite'`,
	).Scan(&tables); err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	if tables == 0 {
		if err := goqite.Setup(ctx, db); err != nil {
			return nil, fmt.Errorf("setup goqite: %w", err)
		}
	}

	q := goqite.New(goqite.NewOpts{
		DB:   db,
		Name: name,
	})

	return &Queue{db: db, queue: q, name: name}, nil
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

// Enqueue adds a job, visible after delay.
func (q *Queue) Enqueue(ctx context.Context, job Job, delay time.Duration) (string, error) {
	switch job.Kind {
	case KindExpireOutput, KindReindex:
	default:
		return "", fmt.Errorf("%w: %q", errUnknownKind, job.Kind)
	}

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.MaxAttempts == 0 {
		job.MaxAttempts = DefaultMaxAttempts
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	body, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}

	if err := q.queue.Send(ctx, goqite.Message{
		Body:  body,
		Delay: delay,
	}); err != nil {
		return "", fmt.Errorf("send to queue: %w", err)
	}

	return job.ID, nil
}

// ScheduleExpiry deletes the named output after the retention period.
func (q *Queue) ScheduleExpiry(ctx context.Context, output string, after time.Duration) (string, error) {
	return q.Enqueue(ctx, Job{Kind: KindExpireOutput, Output: output}, after)
}

// RequestReindex asks a worker to rebuild the font index.
func (q *Queue) RequestReindex(ctx context.Context) (string, error) {
	return q.Enqueue(ctx, Job{Kind: KindReindex}, 0)
}

// Receive gets the next visible job. It returns nils when the queue is
// empty. A message whose body cannot be decoded is returned with an error
// so the caller can drop it.
func (q *Queue) Receive(ctx context.Context) (*Job, *goqite.Message, error) {
	msg, err := q.queue.Receive(ctx)
	if err != nil {
		return nil, nil, err
	}
	if msg == nil {
		return nil, nil, nil
	}

	var job Job
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		return nil, msg, fmt.Errorf("unmarshal job: %w", err)
	}

	return &job, msg, nil
}

// Extend extends the timeout for a message being processed.
func (q *Queue) Extend(ctx context.Context, msg *goqite.Message, d time.Duration) error {
	return q.queue.Extend(ctx, msg.ID, d)
}

// Delete removes a message from the queue (job completed).
func (q *Queue) Delete(ctx context.Context, msg *goqite.Message) error {
	return q.queue.Delete(ctx, msg.ID)
}

// Retry replaces msg with a copy of job carrying one more attempt, visible
// after delay.
func (q *Queue) Retry(ctx context.Context, msg *goqite.Message, job Job, delay time.Duration) error {
	job.Attempts++
	if _, err := q.Enqueue(ctx, job, delay); err != nil {
		return err
	}
	return q.Delete(ctx, msg)
}

// Pending returns the number of messages in the queue, visible or not.
func (q *Queue) Pending(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM goqite WHERE queue = ?`, q.name,
	).Scan(&n)
	return n, err
}
