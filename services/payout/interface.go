package payout

import (
	"context"
	"time"

	bookingRepo "metro/database/repository/booking"
	userRepo "metro/database/repository/user"
	"metro/models"

	"go.uber.org/zap"
)

// PayoutService settles partner earnings for completed items.
type PayoutService interface {
	Payout(ctx context.Context, actor models.Actor, bookingID, itemID string) (*models.Booking, error)
	EarningsSummary(ctx context.Context, actor models.Actor) (*models.EarningsSummary, error)
	PartnerDetails(ctx context.Context, partnerID string) (*models.PartnerDetails, error)
}

type DefaultPayoutService struct {
	Bookings     bookingRepo.BookingRepository
	Users        userRepo.UserRepository
	Provider     Provider
	Locker       Locker
	Logger       *zap.Logger
	PartnerShare float64
	Currency     string
	Now          func() time.Time
}

func NewPayoutService(
	bookings bookingRepo.BookingRepository,
	users userRepo.UserRepository,
	provider Provider,
	locker Locker,
	logger *zap.Logger,
	partnerShare float64,
	currency string,
) *DefaultPayoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &DefaultPayoutService{
		Bookings:     bookings,
		Users:        users,
		Provider:     provider,
		Locker:       locker,
		Logger:       logger,
		PartnerShare: partnerShare,
		Currency:     currency,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}
