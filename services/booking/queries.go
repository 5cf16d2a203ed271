package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	"metro/apperrors"
	"metro/database/repository"
	"metro/models"
)

const recentCompletedLimit = 3

// GetForCustomer returns one of the caller's bookings.
func (s *DefaultBookingService) GetForCustomer(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListForCustomer returns the caller's bookings, newest first, flagged when reviewed.
func (s *DefaultBookingService) ListForCustomer(ctx context.Context, actor models.Actor) ([]models.CustomerBooking, error) {
	bookings, err := s.Repo.ListByCustomer(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list bookings", err)
	}
	rated := map[string]bool{}
	if s.Reviews != nil {
		if rated, err = s.Reviews.ReviewedBookingIDs(ctx, actor.ID); err != nil {
			return nil, apperrors.Internal("failed to list reviews", err)
		}
	}
	out := make([]models.CustomerBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, models.CustomerBooking{Booking: b, IsRated: rated[b.ID]})
	}
	return out, nil
}

// Dashboard returns the next upcoming booking and the latest completed ones.
func (s *DefaultBookingService) Dashboard(ctx context.Context, actor models.Actor) (*models.CustomerDashboard, error) {
	bookings, err := s.Repo.ListByCustomer(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list bookings", err)
	}
	today := s.Now().Format(dateLayout)

	dash := &models.CustomerDashboard{RecentCompleted: []models.Booking{}}
	var upcoming []models.Booking
	for _, b := range bookings {
		switch b.Status {
		case models.BookingCompleted:
			if len(dash.RecentCompleted) < recentCompletedLimit {
				dash.RecentCompleted = append(dash.RecentCompleted, b)
			}
		case models.BookingCancelled:
		default:
			if b.BookingDate >= today {
				upcoming = append(upcoming, b)
			}
		}
	}
	if len(upcoming) > 0 {
		sort.SliceStable(upcoming, func(i, j int) bool {
			if upcoming[i].BookingDate == upcoming[j].BookingDate {
				return upcoming[i].SlotTime < upcoming[j].SlotTime
			}
			return upcoming[i].BookingDate < upcoming[j].BookingDate
		})
		next := upcoming[0]
		dash.Upcoming = &next
	}
	return dash, nil
}

// GetBooking returns any booking by id.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return b, nil
}

// SearchBookings lists bookings for the admin panel.
func (s *DefaultBookingService) SearchBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	for _, d := range []string{filter.DateFrom, filter.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, apperrors.Validation("dates must be formatted YYYY-MM-DD")
		}
	}
	switch filter.Status {
	case "", models.BookingPending, models.BookingSearching, models.BookingConfirmed,
		models.BookingPartiallyAssigned, models.BookingCompleted, models.BookingCancelled:
	default:
		return nil, apperrors.Validation("unknown booking status " + string(filter.Status))
	}
	bookings, err := s.Repo.Search(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to search bookings", err)
	}
	return bookings, nil
}
