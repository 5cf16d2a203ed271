package payout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"metro/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/account"
	"github.com/stripe/stripe-go/v76/bankaccount"
	"github.com/stripe/stripe-go/v76/payout"
	"github.com/stripe/stripe-go/v76/transfer"
)

// StripeProvider pays partners through Stripe Connect. The payee is a custom connected
// account, the funding destination is an external bank account on it, and a payout is a
// platform transfer followed by a payout from the connected account.
type StripeProvider struct {
	Country  string
	Currency string
}

func NewStripeProvider(key, country, currency string) *StripeProvider {
	stripe.Key = key
	return &StripeProvider{Country: strings.ToUpper(country), Currency: strings.ToLower(currency)}
}

func (p *StripeProvider) CreatePayee(ctx context.Context, partner *models.User) (string, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeCustom)),
		Country: stripe.String(p.Country),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
		BusinessType: stripe.String(string(stripe.AccountBusinessTypeIndividual)),
	}
	if partner.Email != "" {
		params.Email = stripe.String(partner.Email)
	}
	params.Context = ctx
	params.SetIdempotencyKey("payee-" + partner.ID)
	params.AddMetadata("partner_id", partner.ID)

	acct, err := account.New(params)
	if err != nil {
		return "", fmt.Errorf("create connected account: %w", err)
	}
	return acct.ID, nil
}

func (p *StripeProvider) CreateFundingDestination(ctx context.Context, partnerID, contactID string, bank models.BankDetails) (string, error) {
	if !bank.HasBankAccount() {
		return "", ErrUnsupportedDestination
	}
	params := &stripe.BankAccountParams{
		Account:           stripe.String(contactID),
		AccountHolderName: stripe.String(bank.AccountHolderName),
		AccountNumber:     stripe.String(bank.AccountNumber),
		RoutingNumber:     stripe.String(bank.IFSCCode),
		Country:           stripe.String(p.Country),
		Currency:          stripe.String(p.Currency),
	}
	params.Context = ctx
	params.SetIdempotencyKey("funding-" + partnerID + "-" + bank.AccountNumber)

	ba, err := bankaccount.New(params)
	if err != nil {
		return "", fmt.Errorf("create external bank account: %w", err)
	}
	return ba.ID, nil
}

func (p *StripeProvider) SubmitPayout(ctx context.Context, in Instruction) (*Receipt, error) {
	currency := in.Currency
	if currency == "" {
		currency = p.Currency
	}

	tp := &stripe.TransferParams{
		Amount:        stripe.Int64(in.Amount),
		Currency:      stripe.String(currency),
		Destination:   stripe.String(in.ContactID),
		TransferGroup: stripe.String(in.Reference),
	}
	tp.Context = ctx
	tp.SetIdempotencyKey("transfer-" + in.Reference)
	if _, err := transfer.New(tp); err != nil {
		return nil, fmt.Errorf("transfer to connected account: %w", err)
	}

	pp := &stripe.PayoutParams{
		Amount:      stripe.Int64(in.Amount),
		Currency:    stripe.String(currency),
		Destination: stripe.String(in.FundAccountID),
		Description: stripe.String(in.Narration),
	}
	pp.Context = ctx
	pp.SetStripeAccount(in.ContactID)
	pp.SetIdempotencyKey("payout-" + in.Reference)
	pp.AddMetadata("reference", in.Reference)

	po, err := payout.New(pp)
	if err != nil {
		return nil, fmt.Errorf("submit payout: %w", err)
	}
	processed := time.Unix(po.Created, 0).UTC()
	if po.Created == 0 {
		processed = time.Now().UTC()
	}
	return &Receipt{TransactionID: po.ID, ProcessedAt: processed}, nil
}
