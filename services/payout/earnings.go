package payout

import (
	"context"
	"errors"

	"metro/apperrors"
	"metro/database/repository"
	"metro/models"
	"metro/services/payment"
)

func (s *DefaultPayoutService) EarningsSummary(ctx context.Context, actor models.Actor) (*models.EarningsSummary, error) {
	if actor.Role != models.RolePartner {
		return nil, apperrors.Forbidden("only partners have earnings")
	}
	summary, _, err := s.earnings(ctx, actor.ID)
	return summary, err
}

// PartnerDetails returns the partner with pending and settled payout totals.
func (s *DefaultPayoutService) PartnerDetails(ctx context.Context, partnerID string) (*models.PartnerDetails, error) {
	partner, err := s.Users.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("partner")
		}
		return nil, apperrors.Internal("failed to load partner", err)
	}
	if partner.Role != models.RolePartner {
		return nil, apperrors.NotFound("partner")
	}
	partner.FCMToken = ""

	summary, completed, err := s.earnings(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return &models.PartnerDetails{
		Partner:       *partner,
		PendingPayout: summary.PendingPayout,
		TotalPaid:     summary.TotalPaid,
		CompletedJobs: completed,
	}, nil
}

// earnings walks the partner's completed items. Pending payout counts items
// completed by the partner and not yet paid.
func (s *DefaultPayoutService) earnings(ctx context.Context, partnerID string) (*models.EarningsSummary, int, error) {
	summary := &models.EarningsSummary{Transactions: []models.EarningTransaction{}}
	completed := 0
	err := s.Bookings.WalkCompletedForPartner(ctx, partnerID, func(b *models.Booking) error {
		for _, it := range b.Items {
			if it.PartnerID != partnerID {
				continue
			}
			if it.Status != models.ItemCompletedByPartner && it.Status != models.ItemCompleted {
				continue
			}
			completed++
			earned := payment.PartnerAmount(it.TotalPrice, s.PartnerShare)
			tx := models.EarningTransaction{
				BookingID:    b.ID,
				BookingCode:  b.BookingID,
				ItemID:       it.ID,
				ServiceName:  it.ServiceName,
				BookingDate:  b.BookingDate,
				ItemTotal:    it.TotalPrice,
				Commission:   it.TotalPrice - earned,
				Earnings:     earned,
				PayoutStatus: it.PayoutStatus,
			}
			if it.PayoutStatus == models.PayoutPaid {
				if it.PayoutDetails != nil {
					earned = it.PayoutDetails.Amount
					tx.Earnings = earned
					tx.Commission = it.TotalPrice - earned
					tx.TransactionID = it.PayoutDetails.TransactionID
					date := it.PayoutDetails.PayoutDate
					tx.PayoutDate = &date
				}
				summary.TotalPaid += earned
			} else {
				summary.PendingPayout += earned
			}
			summary.Transactions = append(summary.Transactions, tx)
		}
		return nil
	})
	if err != nil {
		return nil, 0, apperrors.Internal("failed to walk partner bookings", err)
	}
	return summary, completed, nil
}
