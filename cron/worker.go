package cron

import (
	"context"
	"time"

	"metro/config"
	"metro/services/notification"
	"metro/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationWorker consumes queued booking confirmations.
type NotificationWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// RedisOpt returns the asynq connection for the notification queue.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

func NewNotificationWorker(cfg *config.Config, sender notification.Sender, logger *zap.Logger) *NotificationWorker {
	srv := asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmation, handleBookingConfirmation(sender, logger))

	return &NotificationWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup with backoff.
func (w *NotificationWorker) Start() {
	go func() {
		w.logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("notification worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Error("notification worker gave up; confirmations stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func (w *NotificationWorker) Shutdown() {
	w.srv.Shutdown()
}

func handleBookingConfirmation(sender notification.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseBookingConfirmation(task)
		if err != nil {
			logger.Error("invalid booking confirmation payload", zap.Error(err))
			return asynq.SkipRetry
		}

		if err := sender.SendBookingConfirmation(ctx, p); err != nil {
			logger.Warn("booking confirmation delivery failed",
				zap.String("booking_id", p.BookingID),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}
