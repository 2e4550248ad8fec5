package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campregistration/internal/adapters/queue"
	"campregistration/internal/domain"
)

// JobSource is the queue the worker drains.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// ConfirmationWorker sends shift confirmation emails queued by the API.
type ConfirmationWorker struct {
	jobs        JobSource
	email       domain.EmailService
	logger      *slog.Logger
	pollTimeout time.Duration
	backoff     time.Duration
}

func NewConfirmationWorker(jobs JobSource, email domain.EmailService, logger *slog.Logger) *ConfirmationWorker {
	return &ConfirmationWorker{
		jobs:        jobs,
		email:       email,
		logger:      logger,
		pollTimeout: 5 * time.Second,
		backoff:     queue.RetryBackoff,
	}
}

// Process sends the confirmation carried by job.
func (w *ConfirmationWorker) Process(ctx context.Context, job *queue.Job) error {
	data, err := queue.DecodeShiftConfirmation(job)
	if err != nil {
		return err
	}
	if err := w.email.SendShiftConfirmation(ctx, data); err != nil {
		return fmt.Errorf("job %s: %w", job.ID, err)
	}
	return nil
}

// Run dequeues and processes jobs until ctx is cancelled. Failed jobs are retried through the queue.
func (w *ConfirmationWorker) Run(ctx context.Context) {
	w.logger.InfoContext(ctx, "confirmation worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("confirmation worker stopping")
			return
		default:
		}

		job, err := w.jobs.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.WarnContext(ctx, "dequeue error", "err", err)
			w.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		w.logger.DebugContext(ctx, "processing job", "job_id", job.ID, "type", string(job.Type), "attempt", job.Attempt)
		if err := w.Process(ctx, job); err != nil {
			w.logger.ErrorContext(ctx, "job failed", "job_id", job.ID, "err", err)
			if reErr := w.jobs.Retry(ctx, job); reErr != nil {
				w.logger.ErrorContext(ctx, "retry enqueue failed", "job_id", job.ID, "err", reErr)
			}
			w.sleep(ctx)
		}
	}
}

func (w *ConfirmationWorker) sleep(ctx context.Context) {
	t := time.NewTimer(w.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
