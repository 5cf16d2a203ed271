package notification

import (
	"context"
	"fmt"

	"metro/models"
	"metro/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of asynq.Client used to schedule deliveries.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueSender hands confirmations to the background worker.
type QueueSender struct {
	Client Enqueuer
	Logger *zap.Logger
}

func NewQueueSender(client Enqueuer, logger *zap.Logger) *QueueSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueSender{Client: client, Logger: logger}
}

func (q *QueueSender) SendBookingConfirmation(ctx context.Context, payload models.BookingConfirmationPayload) error {
	task, opts, err := tasks.NewBookingConfirmationTask(payload)
	if err != nil {
		return fmt.Errorf("build confirmation task: %w", err)
	}
	info, err := q.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue confirmation for booking %s: %w", payload.BookingID, err)
	}
	q.Logger.Debug("booking confirmation queued",
		zap.String("booking_id", payload.BookingID),
		zap.String("task_id", info.ID),
	)
	return nil
}
