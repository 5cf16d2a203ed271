package assignment

import (
	"context"
	"time"

	bookingRepo "metro/database/repository/booking"
	userRepo "metro/database/repository/user"
	"metro/models"

	"go.uber.org/zap"
)

// AssignmentService moves booking items from partner discovery to completion.
type AssignmentService interface {
	// Admin side.
	Candidates(ctx context.Context, bookingID, itemID string, matchPincode bool) ([]models.User, error)
	Broadcast(ctx context.Context, actor models.Actor, bookingID string, req models.BroadcastRequest) (*models.Booking, error)
	DirectAssign(ctx context.Context, actor models.Actor, bookingID, itemID, partnerID string) (*models.Booking, error)

	// Partner side.
	Accept(ctx context.Context, actor models.Actor, bookingID, itemID string) (*models.Booking, error)
	RejectRequest(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	Confirm(ctx context.Context, actor models.Actor, bookingID, itemID string) (*models.Booking, error)
	Decline(ctx context.Context, actor models.Actor, bookingID, itemID, reason string) (*models.Booking, error)
	StartJob(ctx context.Context, actor models.Actor, bookingID, itemID, otp string) (*models.Booking, error)
	CompleteJob(ctx context.Context, actor models.Actor, bookingID, itemID string) (*models.Booking, error)
	ListJobRequests(ctx context.Context, actor models.Actor) ([]models.JobRequest, error)
	ListMyJobs(ctx context.Context, actor models.Actor) ([]models.PartnerJob, error)
	PartnerView(b *models.Booking, partnerID string) *models.PartnerBookingView
}

// DefaultAssignmentService is the production AssignmentService.
type DefaultAssignmentService struct {
	Bookings     bookingRepo.BookingRepository
	Users        userRepo.UserRepository
	Logger       *zap.Logger
	PartnerShare float64
	Now          func() time.Time
}

func NewAssignmentService(bookings bookingRepo.BookingRepository, users userRepo.UserRepository, logger *zap.Logger, partnerShare float64) *DefaultAssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAssignmentService{
		Bookings:     bookings,
		Users:        users,
		Logger:       logger,
		PartnerShare: partnerShare,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}
