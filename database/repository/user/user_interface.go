package userRepo

import (
	"context"

	"metro/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID. Returns repository.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// FindPartners returns approved partners matching the query.
	FindPartners(ctx context.Context, q models.PartnerQuery) ([]models.User, error)
	// SetContactID stores the payout provider's payee id on the partner profile.
	SetContactID(ctx context.Context, id, contactID string) error
	// SetFundAccountID stores the payout provider's funding destination id, provided the
	// account number, IFSC and VPA on file still equal those of provisioned. Returns
	// repository.ErrVersionConflict when the bank details changed in between.
	SetFundAccountID(ctx context.Context, id string, provisioned models.BankDetails, fundAccountID string) error
	// UpdateBankDetails replaces the partner's payout destination.
	UpdateBankDetails(ctx context.Context, id string, details models.BankDetails) error
	// UpdatePartnerProfile replaces bio, skills and serviceable pincodes.
	UpdatePartnerProfile(ctx context.Context, id string, profile models.PartnerProfile) error
	// SetAvailability stores the blocked hours of a single date.
	SetAvailability(ctx context.Context, id, date string, blockedHours []int) error
	// SetRating stores the partner's average review rating.
	SetRating(ctx context.Context, id string, rating float64) error
}
