package assignment

import (
	"context"
	"errors"

	"metro/apperrors"
	"metro/database/repository"
	"metro/models"
	"metro/services/booking"
)

// Candidates lists approved partners skilled in the item's service who have not declined it.
func (s *DefaultAssignmentService) Candidates(ctx context.Context, bookingID, itemID string, matchPincode bool) ([]models.User, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	it, err := booking.FindItem(b, itemID)
	if err != nil {
		return nil, err
	}
	return s.candidatesFor(ctx, b, it, matchPincode)
}

func (s *DefaultAssignmentService) candidatesFor(ctx context.Context, b *models.Booking, it *models.BookingItem, matchPincode bool) ([]models.User, error) {
	q := models.PartnerQuery{Skill: it.ServiceName}
	if matchPincode {
		q.Pincode = b.Pincode
	}
	for _, r := range it.RejectedBy {
		q.ExcludeIDs = append(q.ExcludeIDs, r.PartnerID)
	}
	partners, err := s.Users.FindPartners(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("failed to search partners", err)
	}
	// The store filter is advisory; the predicate is re-checked here.
	out := partners[:0]
	for _, p := range partners {
		if isEligible(&p, b, it, matchPincode) {
			out = append(out, p)
		}
	}
	return out, nil
}

func isEligible(p *models.User, b *models.Booking, it *models.BookingItem, matchPincode bool) bool {
	if p.Role != models.RolePartner || p.Status != models.PartnerApproved || p.PartnerProfile == nil {
		return false
	}
	if it.WasRejectedBy(p.ID) || !hasString(p.PartnerProfile.Skills, it.ServiceName) {
		return false
	}
	if matchPincode && b.Pincode != "" && !hasString(p.PartnerProfile.ServiceablePincodes, b.Pincode) {
		return false
	}
	return true
}

func (s *DefaultAssignmentService) loadBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return b, nil
}

func (s *DefaultAssignmentService) loadPartner(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("partner")
		}
		return nil, apperrors.Internal("failed to load partner", err)
	}
	if u.Role != models.RolePartner {
		return nil, apperrors.NotFound("partner")
	}
	return u, nil
}

func hasString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
