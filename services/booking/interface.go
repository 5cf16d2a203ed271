package booking

import (
	"context"
	"time"

	bookingRepo "metro/database/repository/booking"
	reviewRepo "metro/database/repository/review"
	"metro/models"
	"metro/services/notification"
	"metro/services/payment"

	"go.uber.org/zap"
)

// --- Interfaces ---

// BookingService covers the customer side of the booking lifecycle and admin reads.
type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, req models.CreateBookingRequest) (*models.Booking, error)
	PayRemaining(ctx context.Context, actor models.Actor, bookingID string, proof models.PaymentDetails) (*models.Booking, error)
	Cancel(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	Reschedule(ctx context.Context, actor models.Actor, bookingID string, req models.RescheduleRequest) (*models.Booking, error)

	GetForCustomer(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListForCustomer(ctx context.Context, actor models.Actor) ([]models.CustomerBooking, error)
	Dashboard(ctx context.Context, actor models.Actor) (*models.CustomerDashboard, error)

	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	SearchBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
}

// --- Implementation ---

// DefaultBookingService is the production BookingService.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	Reviews    reviewRepo.ReviewRepository
	Ledger     *payment.Ledger
	Notifier   notification.Sender
	Logger     *zap.Logger
	CodePrefix string
	Now        func() time.Time
}

// NewBookingService wires a DefaultBookingService.
func NewBookingService(
	repo bookingRepo.BookingRepository,
	reviews reviewRepo.ReviewRepository,
	ledger *payment.Ledger,
	notifier notification.Sender,
	logger *zap.Logger,
	codePrefix string,
) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codePrefix == "" {
		codePrefix = "METRO"
	}
	return &DefaultBookingService{
		Repo:       repo,
		Reviews:    reviews,
		Ledger:     ledger,
		Notifier:   notifier,
		Logger:     logger,
		CodePrefix: codePrefix,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}
