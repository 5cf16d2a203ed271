package reviewRepo

import (
	"context"

	"metro/models"
)

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// Create inserts a review. Returns repository.ErrDuplicate when the booking was already reviewed.
	Create(ctx context.Context, review *models.Review) error
	// ListByPartner returns a partner's reviews, newest first.
	ListByPartner(ctx context.Context, partnerID string, approvedOnly bool) ([]models.Review, error)
	// List returns reviews matching the filter, newest first.
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
	// SetApproved updates the approval flag and returns the updated review.
	// Returns repository.ErrNotFound when absent.
	SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error)
	// Delete removes a review and returns what was removed. Returns repository.ErrNotFound when absent.
	Delete(ctx context.Context, id string) (*models.Review, error)
	// ReviewedBookingIDs returns the set of booking ids the customer has reviewed.
	ReviewedBookingIDs(ctx context.Context, customerID string) (map[string]bool, error)
}
