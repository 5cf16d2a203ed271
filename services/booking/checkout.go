package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"metro/apperrors"
	"metro/database/repository"
	"metro/models"
	"metro/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout          = "2006-01-02"
	maxCodeAttempts     = 3
	notificationTimeout = 5 * time.Second
)

// CreateBooking validates the cart, opens the payment ledger and persists the booking.
// The confirmation notification is sent afterwards and its failure is only logged.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, req models.CreateBookingRequest) (*models.Booking, error) {
	if actor.Role != models.RoleCustomer {
		return nil, apperrors.Forbidden("only customers can create bookings")
	}

	items, itemsTotal, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}
	if err := validateSchedule(req.BookingDate, req.SlotTime); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, apperrors.Validation("address is required")
	}
	if req.TotalPrice <= 0 || req.TotalPrice != itemsTotal {
		return nil, apperrors.Validation(fmt.Sprintf("totalPrice %d does not match item total %d", req.TotalPrice, itemsTotal))
	}

	otp, err := utils.GenerateNumericOTP(utils.BookingOTPDigits)
	if err != nil {
		return nil, apperrors.Internal("failed to generate booking otp", err)
	}

	b := &models.Booking{
		ID:            uuid.NewString(),
		CustomerID:    actor.ID,
		Items:         items,
		BookingDate:   req.BookingDate,
		SlotTime:      strings.TrimSpace(req.SlotTime),
		Address:       strings.TrimSpace(req.Address),
		Pincode:       strings.TrimSpace(req.Pincode),
		TotalPrice:    req.TotalPrice,
		BookingOTP:    otp,
		BroadcastedTo: []string{},
		CreatedAt:     s.Now(),
	}
	if err := s.Ledger.Open(b, req.PaymentMethod, req.AmountPaid, req.PaymentDetails); err != nil {
		return nil, err
	}
	b.Status = DeriveStatus(b)
	if err := checkInvariants(b); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		b.BookingID = s.newBookingCode()
		err = s.Repo.Create(ctx, b)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt+1 >= maxCodeAttempts {
			return nil, apperrors.Internal("failed to save booking", err)
		}
	}

	s.Logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("booking_code", b.BookingID),
		zap.String("customer_id", b.CustomerID),
		zap.String("payment_method", string(b.PaymentMethod)),
		zap.Int64("amount_due", b.AmountDue),
	)
	s.notifyConfirmation(ctx, b)
	return b, nil
}

func (s *DefaultBookingService) notifyConfirmation(ctx context.Context, b *models.Booking) {
	if s.Notifier == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
	defer cancel()

	err := s.Notifier.SendBookingConfirmation(nctx, models.BookingConfirmationPayload{
		CustomerID:  b.CustomerID,
		BookingID:   b.ID,
		BookingCode: b.BookingID,
		OTP:         b.BookingOTP,
		BookingDate: b.BookingDate,
		SlotTime:    b.SlotTime,
		AmountDue:   b.AmountDue,
	})
	if err != nil {
		s.Logger.Warn("booking confirmation not sent",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

// newBookingCode returns e.g. METRO-20261016-3F9A1C2B.
func (s *DefaultBookingService) newBookingCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", s.CodePrefix, s.Now().Format("20060102"), suffix)
}

func buildItems(inputs []models.BookingItemInput) ([]models.BookingItem, int64, error) {
	if len(inputs) == 0 {
		return nil, 0, apperrors.Validation("at least one item is required")
	}
	items := make([]models.BookingItem, 0, len(inputs))
	var total int64
	for i, in := range inputs {
		if strings.TrimSpace(in.ServiceID) == "" || strings.TrimSpace(in.ServiceName) == "" {
			return nil, 0, apperrors.Validation(fmt.Sprintf("item %d: serviceId and serviceName are required", i))
		}
		if in.Quantity <= 0 {
			return nil, 0, apperrors.Validation(fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if in.UnitPrice < 0 {
			return nil, 0, apperrors.Validation(fmt.Sprintf("item %d: unitPrice must not be negative", i))
		}
		for _, o := range in.SelectedOptions {
			if o.Price < 0 {
				return nil, 0, apperrors.Validation(fmt.Sprintf("item %d: option %q has a negative price", i, o.OptionName))
			}
		}
		line := in.LineTotal()
		total += line
		items = append(items, models.BookingItem{
			ID:              uuid.NewString(),
			ServiceID:       strings.TrimSpace(in.ServiceID),
			ServiceName:     strings.TrimSpace(in.ServiceName),
			Quantity:        in.Quantity,
			SelectedOptions: append([]models.SelectedOption(nil), in.SelectedOptions...),
			TotalPrice:      line,
			Status:          models.ItemPendingAssignment,
			PayoutStatus:    models.PayoutPending,
			RejectedBy:      []models.Rejection{},
		})
	}
	return items, total, nil
}

func validateSchedule(date, slot string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return apperrors.Validation("bookingDate must be formatted YYYY-MM-DD")
	}
	if strings.TrimSpace(slot) == "" {
		return apperrors.Validation("slotTime is required")
	}
	return nil
}
