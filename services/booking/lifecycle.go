package booking

import (
	"context"
	"strings"

	"metro/apperrors"
	"metro/models"

	"go.uber.org/zap"
)

// PayRemaining settles the outstanding balance of the caller's booking.
func (s *DefaultBookingService) PayRemaining(ctx context.Context, actor models.Actor, bookingID string, proof models.PaymentDetails) (*models.Booking, error) {
	b, err := Mutate(ctx, s.Repo, bookingID, func(b *models.Booking) error {
		if err := requireOwner(actor, b); err != nil {
			return err
		}
		if b.CancelledAt != nil {
			return apperrors.InvalidState("booking is cancelled")
		}
		return s.Ledger.SettleRemaining(b, proof)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("booking balance settled", zap.String("booking_id", b.ID), zap.Int64("amount_paid", b.AmountPaid))
	return b, nil
}

// Cancel cancels a booking on behalf of its owner or an admin.
func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := Mutate(ctx, s.Repo, bookingID, func(b *models.Booking) error {
		if actor.Role != models.RoleAdmin {
			if err := requireOwner(actor, b); err != nil {
				return err
			}
		}
		if err := RequireOpen(b); err != nil {
			return apperrors.InvalidState("cannot cancel: " + apperrors.MessageOf(err))
		}
		now := s.Now()
		b.CancelledAt = &now
		b.BroadcastedTo = []string{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("booking cancelled", zap.String("booking_id", b.ID), zap.String("by", string(actor.Role)))
	return b, nil
}

// Reschedule moves an open booking to a new date and slot.
func (s *DefaultBookingService) Reschedule(ctx context.Context, actor models.Actor, bookingID string, req models.RescheduleRequest) (*models.Booking, error) {
	if err := validateSchedule(req.BookingDate, req.SlotTime); err != nil {
		return nil, err
	}
	return Mutate(ctx, s.Repo, bookingID, func(b *models.Booking) error {
		if err := requireOwner(actor, b); err != nil {
			return err
		}
		if err := RequireOpen(b); err != nil {
			return apperrors.InvalidState("cannot reschedule: " + apperrors.MessageOf(err))
		}
		b.BookingDate = req.BookingDate
		b.SlotTime = strings.TrimSpace(req.SlotTime)
		return nil
	})
}

func requireOwner(actor models.Actor, b *models.Booking) error {
	if actor.Role != models.RoleCustomer || b.CustomerID != actor.ID {
		return apperrors.Forbidden("booking belongs to another customer")
	}
	return nil
}
