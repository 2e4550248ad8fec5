package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"campregistration/internal/domain"
)

const (
	// QueueShiftConfirmations is the Redis list key for shift confirmation email jobs.
	QueueShiftConfirmations = "campregistration:shift_confirmations"
	// QueueDLQ holds jobs that failed MaxRetries times.
	QueueDLQ = "campregistration:dlq"
	// MaxRetries is the number of attempts before a job is moved to the DLQ.
	MaxRetries = 3
	// RetryBackoff is the pause after a failed job or a dequeue error.
	RetryBackoff = 10 * time.Second
)

// JobType identifies the job kind.
type JobType string

const JobTypeShiftConfirmation JobType = "shift_confirmation"

// Job is the envelope stored in Redis.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// listClient is the subset of *redis.Client the queue uses.
type listClient interface {
	RPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Queue enqueues and dequeues jobs via Redis lists.
type Queue struct {
	client listClient
	logger *slog.Logger
	now    func() time.Time
}

// NewQueue creates a Redis-backed job queue. client is usually a *redis.Client.
func NewQueue(client listClient, logger *slog.Logger) *Queue {
	return &Queue{client: client, logger: logger, now: time.Now}
}

// EnqueueShiftConfirmation queues a confirmation email for a committed registration.
func (q *Queue) EnqueueShiftConfirmation(ctx context.Context, data *domain.ShiftConfirmationEmailData) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	job := Job{
		ID:        uuid.New().String(),
		Type:      JobTypeShiftConfirmation,
		Payload:   body,
		CreatedAt: q.now().UTC(),
	}
	if err := q.push(ctx, QueueShiftConfirmations, &job); err != nil {
		return err
	}
	q.logger.DebugContext(ctx, "enqueued shift confirmation job", "job_id", job.ID, "to", data.Email)
	return nil
}

// Dequeue blocks for up to timeout. It returns (nil, nil) when nothing arrived or the entry was unreadable.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	result, err := q.client.BLPop(ctx, timeout, QueueShiftConfirmations).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.WarnContext(ctx, "invalid job payload", "raw", result[1], "err", err)
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues job with an incremented attempt, or moves it to the DLQ once MaxRetries is reached.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	if job.Attempt >= MaxRetries {
		if err := q.push(ctx, QueueDLQ, job); err != nil {
			q.logger.ErrorContext(ctx, "dlq push failed", "job_id", job.ID, "err", err)
			return err
		}
		q.logger.WarnContext(ctx, "job moved to DLQ", "job_id", job.ID, "attempt", job.Attempt)
		return nil
	}
	if err := q.push(ctx, QueueShiftConfirmations, job); err != nil {
		return err
	}
	q.logger.InfoContext(ctx, "job retried", "job_id", job.ID, "attempt", job.Attempt)
	return nil
}

func (q *Queue) push(ctx context.Context, key string, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, key, raw).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

// DecodeShiftConfirmation returns the email data carried by a shift confirmation job.
func DecodeShiftConfirmation(job *Job) (*domain.ShiftConfirmationEmailData, error) {
	if job.Type != JobTypeShiftConfirmation {
		return nil, fmt.Errorf("unexpected job type %q", job.Type)
	}
	var data domain.ShiftConfirmationEmailData
	if err := json.Unmarshal(job.Payload, &data); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &data, nil
}
