package tasks

import (
	"encoding/json"
	"time"

	"metro/models"

	"github.com/hibiken/asynq"
)

const TypeBookingConfirmation = "booking:confirmation"

const bookingConfirmationRetries = 5

// NewBookingConfirmationTask builds the task that delivers a booking's OTP to the customer.
func NewBookingConfirmationTask(payload models.BookingConfirmationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmation, b)
	opts := []asynq.Option{
		asynq.MaxRetry(bookingConfirmationRetries),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// ParseBookingConfirmation decodes a task built by NewBookingConfirmationTask.
func ParseBookingConfirmation(task *asynq.Task) (models.BookingConfirmationPayload, error) {
	var p models.BookingConfirmationPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
