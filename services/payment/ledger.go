package payment

import (
	"fmt"

	"metro/apperrors"
	"metro/models"
)

// Ledger owns every mutation of a booking's paid/due amounts.
type Ledger struct {
	verifier Verifier
}

func NewLedger(v Verifier) *Ledger {
	return &Ledger{verifier: v}
}

// Open initializes the ledger of a new booking whose TotalPrice is already set.
func (l *Ledger) Open(b *models.Booking, method models.PaymentMethod, amountPaid int64, proof models.PaymentDetails) error {
	switch method {
	case models.PaymentOnline:
		if err := l.verifier.Verify(proof); err != nil {
			return err
		}
		if amountPaid <= 0 || amountPaid > b.TotalPrice {
			return apperrors.Validation(fmt.Sprintf("amountPaid must be between 1 and %d", b.TotalPrice))
		}
		b.AmountPaid = amountPaid
		b.AmountDue = b.TotalPrice - amountPaid
		b.PaymentDetails = proof
		if b.AmountDue == 0 {
			b.PaymentStatus = models.PaymentPaid
		} else {
			b.PaymentStatus = models.PaymentPartiallyPaid
		}
	case models.PaymentCOD:
		b.AmountPaid = 0
		b.AmountDue = b.TotalPrice
		b.PaymentStatus = models.PaymentPending
	default:
		return apperrors.Validation(fmt.Sprintf("unsupported payment method %q", method))
	}
	b.PaymentMethod = method
	return CheckInvariant(b)
}

// SettleRemaining records payment of the whole outstanding balance.
func (l *Ledger) SettleRemaining(b *models.Booking, proof models.PaymentDetails) error {
	if b.AmountDue <= 0 {
		return apperrors.NothingDue()
	}
	if err := l.verifier.Verify(proof); err != nil {
		return err
	}
	b.AmountPaid += b.AmountDue
	b.AmountDue = 0
	b.PaymentStatus = models.PaymentPaid
	p := proof
	b.BalancePayment = &p
	return CheckInvariant(b)
}

// CheckInvariant verifies amountPaid + amountDue == totalPrice.
func CheckInvariant(b *models.Booking) error {
	if b.AmountPaid < 0 || b.AmountDue < 0 || b.AmountPaid+b.AmountDue != b.TotalPrice {
		return apperrors.Internal(fmt.Sprintf("ledger out of balance: paid %d + due %d != total %d",
			b.AmountPaid, b.AmountDue, b.TotalPrice), nil)
	}
	return nil
}
