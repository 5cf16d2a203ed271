package assignment

import (
	"context"
	"sort"
	"time"

	"metro/apperrors"
	"metro/models"
	"metro/services/booking"

	"go.uber.org/zap"
)

// Broadcast offers every unassigned item of the booking to all eligible partners.
// A new broadcast replaces the previous partner list.
func (s *DefaultAssignmentService) Broadcast(ctx context.Context, actor models.Actor, bookingID string, req models.BroadcastRequest) (*models.Booking, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can broadcast bookings")
	}

	snapshot, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	candidates := make(map[string][]models.User, len(snapshot.Items))
	for i := range snapshot.Items {
		it := &snapshot.Items[i]
		if it.Status != models.ItemPendingAssignment {
			continue
		}
		found, err := s.candidatesFor(ctx, snapshot, it, req.MatchPincode)
		if err != nil {
			return nil, err
		}
		candidates[it.ID] = found
	}

	b, err := booking.Mutate(ctx, s.Bookings, bookingID, func(b *models.Booking) error {
		switch booking.DeriveStatus(b) {
		case models.BookingPending, models.BookingSearching, models.BookingPartiallyAssigned:
		default:
			return apperrors.InvalidState("booking cannot be broadcast while " + string(b.Status))
		}

		set := map[string]bool{}
		for i := range b.Items {
			it := &b.Items[i]
			if it.Status != models.ItemPendingAssignment {
				continue
			}
			for _, p := range candidates[it.ID] {
				if !it.WasRejectedBy(p.ID) {
					set[p.ID] = true
				}
			}
		}
		if len(set) == 0 {
			return apperrors.InvalidState("no eligible partners for the unassigned items")
		}

		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		b.BroadcastedTo = ids
		if req.WindowMinutes > 0 {
			deadline := s.Now().Add(time.Duration(req.WindowMinutes) * time.Minute)
			b.AssignmentDeadline = &deadline
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("booking broadcast",
		zap.String("booking_id", b.ID),
		zap.Int("partners", len(b.BroadcastedTo)),
		zap.String("status", string(b.Status)),
	)
	return b, nil
}

// Accept claims an unassigned item for the calling partner. The first accept wins;
// later ones fail with AlreadyAssigned.
func (s *DefaultAssignmentService) Accept(ctx context.Context, actor models.Actor, bookingID, itemID string) (*models.Booking, error) {
	if actor.Role != models.RolePartner {
		return nil, apperrors.Forbidden("only partners can accept jobs")
	}
	b, err := booking.Mutate(ctx, s.Bookings, bookingID, func(b *models.Booking) error {
		if err := booking.RequireOpen(b); err != nil {
			return err
		}
		it, err := booking.FindItem(b, itemID)
		if err != nil {
			return err
		}
		if it.PartnerID != "" {
			return apperrors.AlreadyAssigned()
		}
		if !b.IsBroadcastTo(actor.ID) {
			return apperrors.Forbidden("this booking was not offered to you")
		}
		if err := booking.ApplyItemEvent(it, booking.Event{Type: booking.EventBroadcastAccept, PartnerID: actor.ID, At: s.Now()}); err != nil {
			return err
		}
		b.BroadcastedTo = []string{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("job accepted",
		zap.String("booking_id", bookingID),
		zap.String("item_id", itemID),
		zap.String("partner_id", actor.ID),
	)
	return b, nil
}

// RejectRequest withdraws the calling partner from the booking's broadcast.
func (s *DefaultAssignmentService) RejectRequest(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	if actor.Role != models.RolePartner {
		return nil, apperrors.Forbidden("only partners can reject job requests")
	}
	return booking.Mutate(ctx, s.Bookings, bookingID, func(b *models.Booking) error {
		if !b.IsBroadcastTo(actor.ID) {
			return apperrors.InvalidState("no pending job request for this booking")
		}
		kept := make([]string, 0, len(b.BroadcastedTo))
		for _, id := range b.BroadcastedTo {
			if id != actor.ID {
				kept = append(kept, id)
			}
		}
		b.BroadcastedTo = kept
		return nil
	})
}
