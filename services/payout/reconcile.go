package payout

import (
	"context"
	"errors"
	"fmt"

	"metro/apperrors"
	"metro/database/repository"
	"metro/models"
	"metro/services/booking"
	"metro/services/payment"

	"go.uber.org/zap"
)

// Payout pays the partner's share of a completed item and closes the item.
// Any provider failure returns before the booking is written.
func (s *DefaultPayoutService) Payout(ctx context.Context, actor models.Actor, bookingID, itemID string) (*models.Booking, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can trigger payouts")
	}

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	it, err := booking.FindItem(b, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(it); err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, it.PartnerID)
	if err != nil {
		return nil, apperrors.Internal("failed to acquire payout lock", err)
	}
	defer unlock()

	// Re-read under the lock; a concurrent payout of this item may have won.
	b, err = s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("failed to load booking", err)
	}
	it, err = booking.FindItem(b, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(it); err != nil {
		return nil, err
	}
	partnerID := it.PartnerID

	partner, err := s.Users.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("partner")
		}
		return nil, apperrors.Internal("failed to load partner", err)
	}
	if !partner.BankDetails.HasBankAccount() && !partner.BankDetails.HasVPA() {
		return nil, apperrors.NoPayoutDestination()
	}

	contactID, err := s.ensurePayee(ctx, partner)
	if err != nil {
		return nil, err
	}
	fundAccountID, err := s.ensureFundingDestination(ctx, partner, contactID)
	if err != nil {
		return nil, err
	}

	amount := payment.PartnerAmount(it.TotalPrice, s.PartnerShare)
	ref := Reference(b.ID, it.ID)
	receipt, err := s.Provider.SubmitPayout(ctx, Instruction{
		ContactID:     contactID,
		FundAccountID: fundAccountID,
		Amount:        amount,
		Currency:      s.Currency,
		Reference:     ref,
		Narration:     fmt.Sprintf("Payout for %s %s", b.BookingID, it.ServiceName),
	})
	if err != nil {
		s.Logger.Error("payout submission failed",
			zap.String("booking_id", b.ID),
			zap.String("item_id", it.ID),
			zap.String("partner_id", partnerID),
			zap.Error(err),
		)
		return nil, apperrors.External("payout submission failed", err)
	}

	updated, err := booking.Mutate(ctx, s.Bookings, bookingID, func(b *models.Booking) error {
		it, err := booking.FindItem(b, itemID)
		if err != nil {
			return err
		}
		if err := checkPayable(it); err != nil {
			return err
		}
		if it.PartnerID != partnerID {
			return apperrors.Conflict("item partner changed during payout")
		}
		it.PayoutStatus = models.PayoutPaid
		it.PayoutDetails = &models.PayoutDetails{
			TransactionID: receipt.TransactionID,
			PayoutDate:    receipt.ProcessedAt,
			Amount:        amount,
		}
		return booking.ApplyItemEvent(it, booking.Event{Type: booking.EventPayoutSettled, At: s.Now()})
	})
	if err != nil {
		s.Logger.Error("payout submitted but booking not updated",
			zap.String("booking_id", bookingID),
			zap.String("item_id", itemID),
			zap.String("transaction_id", receipt.TransactionID),
			zap.Error(err),
		)
		return nil, err
	}

	s.Logger.Info("payout completed",
		zap.String("booking_id", bookingID),
		zap.String("item_id", itemID),
		zap.String("partner_id", partnerID),
		zap.Int64("amount", amount),
		zap.String("transaction_id", receipt.TransactionID),
	)
	return updated, nil
}

func checkPayable(it *models.BookingItem) error {
	if it.PayoutStatus == models.PayoutPaid {
		return apperrors.InvalidState("item has already been paid out")
	}
	if it.Status != models.ItemCompletedByPartner {
		return apperrors.InvalidState("item must be completed by the partner before payout, item is " + string(it.Status))
	}
	return nil
}

// ensurePayee returns the partner's provider contact id, creating and persisting it on first use.
func (s *DefaultPayoutService) ensurePayee(ctx context.Context, partner *models.User) (string, error) {
	if partner.PartnerProfile != nil && partner.PartnerProfile.ContactID != "" {
		return partner.PartnerProfile.ContactID, nil
	}
	contactID, err := s.Provider.CreatePayee(ctx, partner)
	if err != nil {
		return "", apperrors.External("failed to create payee", err)
	}
	if err := s.Users.SetContactID(ctx, partner.ID, contactID); err != nil {
		return "", apperrors.Internal("failed to save payee id", err)
	}
	s.Logger.Info("payee provisioned", zap.String("partner_id", partner.ID), zap.String("contact_id", contactID))
	return contactID, nil
}

func (s *DefaultPayoutService) ensureFundingDestination(ctx context.Context, partner *models.User, contactID string) (string, error) {
	if partner.BankDetails.FundAccountID != "" {
		return partner.BankDetails.FundAccountID, nil
	}
	fundAccountID, err := s.Provider.CreateFundingDestination(ctx, partner.ID, contactID, *partner.BankDetails)
	if err != nil {
		return "", apperrors.External("failed to create funding destination", err)
	}
	if err := s.Users.SetFundAccountID(ctx, partner.ID, *partner.BankDetails, fundAccountID); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.Logger.Warn("bank details changed while provisioning; funding destination discarded",
				zap.String("partner_id", partner.ID),
				zap.String("fund_account_id", fundAccountID),
			)
			return "", apperrors.Conflict("partner bank details changed during payout, retry the payout")
		}
		return "", apperrors.Internal("failed to save funding destination id", err)
	}
	s.Logger.Info("funding destination provisioned", zap.String("partner_id", partner.ID))
	return fundAccountID, nil
}
