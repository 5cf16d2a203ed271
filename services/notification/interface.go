package notification

import (
	"context"

	"metro/models"
)

// Sender delivers customer notifications. Callers treat failures as non-fatal.
type Sender interface {
	SendBookingConfirmation(ctx context.Context, payload models.BookingConfirmationPayload) error
}
