package payout

import (
	"context"
	"errors"
	"time"

	"metro/models"
)

// ErrUnsupportedDestination is returned when the provider cannot pay out to the partner's destination type.
var ErrUnsupportedDestination = errors.New("payout destination not supported by provider")

// Instruction is one payout submission. Reference is unique per booking item.
type Instruction struct {
	ContactID     string
	FundAccountID string
	Amount        int64
	Currency      string
	Reference     string
	Narration     string
}

// Receipt is the provider's acknowledgement of a submitted payout.
type Receipt struct {
	TransactionID string
	ProcessedAt   time.Time
}

// Provider is the external payout API. Every call is idempotent for the same logical key.
type Provider interface {
	// CreatePayee registers the partner as a payee and returns its contact id.
	CreatePayee(ctx context.Context, partner *models.User) (string, error)
	// CreateFundingDestination attaches the partner's bank account or VPA to the payee.
	CreateFundingDestination(ctx context.Context, partnerID, contactID string, bank models.BankDetails) (string, error)
	// SubmitPayout transfers the amount to the funding destination.
	SubmitPayout(ctx context.Context, in Instruction) (*Receipt, error)
}

// Reference is the upstream deduplication key of an item payout.
func Reference(bookingID, itemID string) string {
	return "booking_" + bookingID + "_item_" + itemID
}
