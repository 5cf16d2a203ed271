package booking

import (
	"context"
	"errors"
	"fmt"

	"metro/apperrors"
	"metro/database/repository"
	bookingRepo "metro/database/repository/booking"
	"metro/models"
	"metro/services/payment"
)

const maxMutationAttempts = 5

// Mutation changes a freshly loaded booking in place. Returning an error discards the change.
type Mutation func(b *models.Booking) error

// Mutate is the only write path for existing bookings. It loads the booking, applies fn,
// re-derives the status, checks the aggregate invariants and stores the result with a
// version compare-and-swap. On a lost race it reloads and re-applies fn, so fn sees the
// winner's state and can reject the change.
func Mutate(ctx context.Context, repo bookingRepo.BookingRepository, id string, fn Mutation) (*models.Booking, error) {
	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		b, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("booking")
			}
			return nil, apperrors.Internal("failed to load booking", err)
		}

		expected := b.Version
		if err := fn(b); err != nil {
			return nil, err
		}
		b.Status = DeriveStatus(b)
		if err := checkInvariants(b); err != nil {
			return nil, err
		}

		err = repo.Update(ctx, b, expected)
		switch {
		case err == nil:
			return b, nil
		case errors.Is(err, repository.ErrVersionConflict):
			continue
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("booking")
		default:
			return nil, apperrors.Internal("failed to save booking", err)
		}
	}
	return nil, apperrors.Conflict(fmt.Sprintf("booking %s is being modified concurrently, retry", id))
}

func checkInvariants(b *models.Booking) error {
	if err := payment.CheckInvariant(b); err != nil {
		return err
	}
	for i := range b.Items {
		if err := CheckItemInvariant(&b.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// RequireOpen rejects changes to completed or cancelled bookings.
func RequireOpen(b *models.Booking) error {
	switch DeriveStatus(b) {
	case models.BookingCancelled:
		return apperrors.InvalidState("booking is cancelled")
	case models.BookingCompleted:
		return apperrors.InvalidState("booking is completed")
	}
	return nil
}

// FindItem returns the item or NotFound.
func FindItem(b *models.Booking, itemID string) (*models.BookingItem, error) {
	it, ok := b.Item(itemID)
	if !ok {
		return nil, apperrors.NotFound("booking item")
	}
	return it, nil
}
