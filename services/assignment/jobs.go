package assignment

import (
	"context"
	"crypto/subtle"

	"metro/apperrors"
	"metro/models"
	"metro/services/booking"

	"go.uber.org/zap"
)

// DirectAssign hands an unassigned item to a chosen partner, pending their confirmation.
func (s *DefaultAssignmentService) DirectAssign(ctx context.Context, actor models.Actor, bookingID, itemID, partnerID string) (*models.Booking, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can assign partners")
	}
	partner, err := s.loadPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if partner.Status != models.PartnerApproved {
		return nil, apperrors.InvalidState("partner is not approved")
	}

	b, err := booking.Mutate(ctx, s.Bookings, bookingID, func(b *models.Booking) error {
		if err := booking.RequireOpen(b); err != nil {
			return err
		}
		it, err := booking.FindItem(b, itemID)
		if err != nil {
			return err
		}
		return booking.ApplyItemEvent(it, booking.Event{Type: booking.EventDirectAssign, PartnerID: partnerID, At: s.Now()})
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("partner assigned",
		zap.String("booking_id", bookingID),
		zap.String("item_id", itemID),
		zap.String("partner_id", partnerID),
	)
	return b, nil
}

// Confirm accepts a direct assignment.
func (s *DefaultAssignmentService) Confirm(ctx context.Context, actor models.Actor, bookingID, itemID string) (*models.Booking, error) {
	return s.partnerTransition(ctx, actor, bookingID, itemID, booking.Event{Type: booking.EventConfirm}, nil)
}

// Decline refuses a direct assignment. The partner is recorded and never offered the item again.
func (s *DefaultAssignmentService) Decline(ctx context.Context, actor models.Actor, bookingID, itemID, reason string) (*models.Booking, error) {
	b, err := s.partnerTransition(ctx, actor, bookingID, itemID, booking.Event{Type: booking.EventDecline, Reason: reason}, nil)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("assignment declined",
		zap.String("booking_id", bookingID),
		zap.String("item_id", itemID),
		zap.String("partner_id", actor.ID),
	)
	return b, nil
}

// StartJob moves an assigned item in progress once the customer's OTP matches.
// A wrong OTP leaves the booking untouched and may be retried.
func (s *DefaultAssignmentService) StartJob(ctx context.Context, actor models.Actor, bookingID, itemID, otp string) (*models.Booking, error) {
	return s.partnerTransition(ctx, actor, bookingID, itemID, booking.Event{Type: booking.EventStart}, func(b *models.Booking, it *models.BookingItem) error {
		if it.Status != models.ItemAssigned {
			return apperrors.InvalidState("job can only be started once assigned, item is " + string(it.Status))
		}
		if otp == "" || subtle.ConstantTimeCompare([]byte(otp), []byte(b.BookingOTP)) != 1 {
			return apperrors.InvalidOTP()
		}
		return nil
	})
}

// CompleteJob marks an in-progress item done by the partner.
func (s *DefaultAssignmentService) CompleteJob(ctx context.Context, actor models.Actor, bookingID, itemID string) (*models.Booking, error) {
	return s.partnerTransition(ctx, actor, bookingID, itemID, booking.Event{Type: booking.EventPartnerComplete}, nil)
}

// partnerTransition applies ev to an item held by the calling partner after the optional guard.
func (s *DefaultAssignmentService) partnerTransition(
	ctx context.Context,
	actor models.Actor,
	bookingID, itemID string,
	ev booking.Event,
	guard func(b *models.Booking, it *models.BookingItem) error,
) (*models.Booking, error) {
	if actor.Role != models.RolePartner {
		return nil, apperrors.Forbidden("only partners can update jobs")
	}
	return booking.Mutate(ctx, s.Bookings, bookingID, func(b *models.Booking) error {
		if err := booking.RequireOpen(b); err != nil {
			return err
		}
		it, err := booking.FindItem(b, itemID)
		if err != nil {
			return err
		}
		if it.PartnerID != actor.ID {
			return apperrors.Forbidden("item is not assigned to you")
		}
		if guard != nil {
			if err := guard(b, it); err != nil {
				return err
			}
		}
		ev.At = s.Now()
		return booking.ApplyItemEvent(it, ev)
	})
}
