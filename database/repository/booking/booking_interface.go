package bookingRepo

import (
	"context"

	"metro/models"
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking. Returns repository.ErrDuplicate when the booking code is taken.
	Create(ctx context.Context, b *models.Booking) error
	// GetByID retrieves a booking by its id. Returns repository.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Update replaces the booking if its stored version still equals expectedVersion,
	// bumping the version on success. Returns repository.ErrVersionConflict otherwise.
	Update(ctx context.Context, b *models.Booking, expectedVersion int) error
	// ListByCustomer returns a customer's bookings, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	// ListForPartner returns bookings with an item assigned to or rejected by the partner.
	ListForPartner(ctx context.Context, partnerID string) ([]models.Booking, error)
	// WalkCompletedForPartner calls fn for every booking holding an item the partner
	// completed, oldest first. Unlike the List methods it is not capped.
	WalkCompletedForPartner(ctx context.Context, partnerID string, fn func(*models.Booking) error) error
	// ListJobRequests returns open bookings broadcast to the partner or awaiting their confirmation.
	ListJobRequests(ctx context.Context, partnerID string) ([]models.Booking, error)
	// Search returns bookings matching the admin filter, newest first.
	Search(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
}
