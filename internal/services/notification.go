package services

import (
	"context"
	"log/slog"

	"campregistration/internal/domain"
)

// ShiftConfirmationQueue accepts confirmation emails for asynchronous delivery.
type ShiftConfirmationQueue interface {
	EnqueueShiftConfirmation(ctx context.Context, data *domain.ShiftConfirmationEmailData) error
}

type queueNotifier struct {
	queue ShiftConfirmationQueue
}

// NewQueueNotifier returns a ShiftNotifier that queues a confirmation email per registration.
func NewQueueNotifier(queue ShiftConfirmationQueue) domain.ShiftNotifier {
	return &queueNotifier{queue: queue}
}

func (n *queueNotifier) ShiftRegistered(ctx context.Context, reg *domain.ShiftRegistration) error {
	if reg.MemberEmail == "" {
		return nil
	}
	return n.queue.EnqueueShiftConfirmation(ctx, confirmationData(reg))
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a ShiftNotifier that only logs. Used when no queue is configured.
func NewLogNotifier(logger *slog.Logger) domain.ShiftNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) ShiftRegistered(ctx context.Context, reg *domain.ShiftRegistration) error {
	n.logger.DebugContext(ctx, "shift confirmation skipped (no queue)", "registration_id", reg.ID, "to", reg.MemberEmail)
	return nil
}

func confirmationData(reg *domain.ShiftRegistration) *domain.ShiftConfirmationEmailData {
	return &domain.ShiftConfirmationEmailData{
		Email:     reg.MemberEmail,
		Name:      reg.MemberName,
		Day:       reg.Day.String(),
		ShiftTime: reg.ShiftTime.String(),
		Role:      reg.Role.String(),
	}
}
