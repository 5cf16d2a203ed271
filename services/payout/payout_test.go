package payout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"metro/apperrors"
	memoryRepo "metro/database/repository/memory"
	"metro/models"
)

var admin = models.Actor{ID: "admin-1", Role: models.RoleAdmin}

type fakeProvider struct {
	mu          sync.Mutex
	payees      int
	funding     int
	payouts     []Instruction
	failPayout  error
	failFunding error
	funded      []string
	onFunding   func()
}

func (p *fakeProvider) CreatePayee(_ context.Context, partner *models.User) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payees++
	return "acct_" + partner.ID, nil
}

func (p *fakeProvider) CreateFundingDestination(_ context.Context, partnerID, contactID string, bank models.BankDetails) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failFunding != nil {
		return "", p.failFunding
	}
	p.funding++
	p.funded = append(p.funded, bank.AccountNumber)
	if p.onFunding != nil {
		p.onFunding()
	}
	return "ba_" + partnerID, nil
}

func (p *fakeProvider) SubmitPayout(_ context.Context, in Instruction) (*Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failPayout != nil {
		return nil, p.failPayout
	}
	p.payouts = append(p.payouts, in)
	return &Receipt{TransactionID: "po_" + in.Reference, ProcessedAt: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}, nil
}

type fixture struct {
	svc      *DefaultPayoutService
	bookings *memoryRepo.BookingStore
	users    *memoryRepo.UserStore
	provider *fakeProvider
}

func newFixture(t *testing.T, bank *models.BankDetails) *fixture {
	t.Helper()
	bookings := memoryRepo.NewBookingStore()
	users := memoryRepo.NewUserStore()
	provider := &fakeProvider{}
	svc := NewPayoutService(bookings, users, provider, NewLocalLocker(), nil, 0.8, "inr")

	err := users.Create(context.Background(), &models.User{
		ID:             "p-1",
		Role:           models.RolePartner,
		Status:         models.PartnerApproved,
		BankDetails:    bank,
		PartnerProfile: &models.PartnerProfile{Skills: []string{"Plumbing"}},
	})
	if err != nil {
		t.Fatalf("create partner: %v", err)
	}

	b := &models.Booking{
		ID:            "bk-1",
		BookingID:     "METRO-20261016-0000BK01",
		CustomerID:    "cust-1",
		BookingDate:   "2026-10-20",
		TotalPrice:    3000,
		AmountPaid:    3000,
		PaymentMethod: models.PaymentOnline,
		PaymentStatus: models.PaymentPaid,
		Status:        models.BookingConfirmed,
		BroadcastedTo: []string{},
		Items: []models.BookingItem{
			{ID: "item-a", ServiceName: "Plumbing", Quantity: 1, TotalPrice: 1000, PartnerID: "p-1", Status: models.ItemCompletedByPartner, PayoutStatus: models.PayoutPending},
			{ID: "item-b", ServiceName: "Plumbing", Quantity: 1, TotalPrice: 2000, PartnerID: "p-1", Status: models.ItemCompletedByPartner, PayoutStatus: models.PayoutPending},
		},
	}
	if err := bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return &fixture{svc: svc, bookings: bookings, users: users, provider: provider}
}

func bankAccount() *models.BankDetails {
	return &models.BankDetails{AccountHolderName: "Ravi", AccountNumber: "000123456789", IFSCCode: "HDFC0001234"}
}

func TestPayoutCompletesItem(t *testing.T) {
	f := newFixture(t, bankAccount())
	ctx := context.Background()

	got, err := f.svc.Payout(ctx, admin, "bk-1", "item-a")
	if err != nil {
		t.Fatalf("Payout: %v", err)
	}
	it := got.Items[0]
	if it.Status != models.ItemCompleted || it.PayoutStatus != models.PayoutPaid {
		t.Fatalf("item: status=%s payout=%s", it.Status, it.PayoutStatus)
	}
	if it.PayoutDetails == nil || it.PayoutDetails.Amount != 800 || it.PayoutDetails.TransactionID != "po_booking_bk-1_item_item-a" {
		t.Fatalf("payout details = %+v", it.PayoutDetails)
	}
	if len(f.provider.payouts) != 1 || f.provider.payouts[0].Amount != 800 || f.provider.payouts[0].FundAccountID != "ba_p-1" {
		t.Fatalf("submitted = %+v", f.provider.payouts)
	}

	partner, _ := f.users.GetByID(ctx, "p-1")
	if partner.PartnerProfile.ContactID != "acct_p-1" || partner.BankDetails.FundAccountID != "ba_p-1" {
		t.Fatalf("provisioned ids not persisted: %+v %+v", partner.PartnerProfile, partner.BankDetails)
	}

	// The second item reuses the provisioned payee and funding destination.
	got, err = f.svc.Payout(ctx, admin, "bk-1", "item-b")
	if err != nil {
		t.Fatalf("second Payout: %v", err)
	}
	if f.provider.payees != 1 || f.provider.funding != 1 {
		t.Fatalf("provisioning repeated: payees=%d funding=%d", f.provider.payees, f.provider.funding)
	}
	if got.Status != models.BookingCompleted {
		t.Fatalf("booking status = %s, want Completed", got.Status)
	}
}

func TestPayoutTwiceIsRejected(t *testing.T) {
	f := newFixture(t, bankAccount())
	ctx := context.Background()

	if _, err := f.svc.Payout(ctx, admin, "bk-1", "item-a"); err != nil {
		t.Fatalf("Payout: %v", err)
	}
	if _, err := f.svc.Payout(ctx, admin, "bk-1", "item-a"); !apperrors.Is(err, apperrors.KindInvalidState) {
		t.Fatalf("second payout err = %v, want InvalidState", err)
	}
	if len(f.provider.payouts) != 1 {
		t.Fatalf("payouts submitted = %d, want 1", len(f.provider.payouts))
	}
}

func TestConcurrentPayoutsProvisionOnce(t *testing.T) {
	f := newFixture(t, bankAccount())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, item := range []string{"item-a", "item-b"} {
		wg.Add(1)
		go func(i int, item string) {
			defer wg.Done()
			_, errs[i] = f.svc.Payout(ctx, admin, "bk-1", item)
		}(i, item)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("payout %d: %v", i, err)
		}
	}
	if f.provider.payees != 1 || f.provider.funding != 1 {
		t.Fatalf("payees=%d funding=%d, want 1 each", f.provider.payees, f.provider.funding)
	}
}

func TestPayoutFailureLeavesItemUnchanged(t *testing.T) {
	f := newFixture(t, bankAccount())
	ctx := context.Background()
	f.provider.failPayout = errors.New("gateway timeout")

	_, err := f.svc.Payout(ctx, admin, "bk-1", "item-a")
	if !apperrors.Is(err, apperrors.KindExternalServiceFailure) {
		t.Fatalf("err = %v, want ExternalServiceFailure", err)
	}
	stored, _ := f.bookings.GetByID(ctx, "bk-1")
	it := stored.Items[0]
	if it.Status != models.ItemCompletedByPartner || it.PayoutStatus != models.PayoutPending || it.PayoutDetails != nil {
		t.Fatalf("item mutated on failure: %+v", it)
	}

	// Provisioned ids survive so the retry does not create a second payee.
	f.provider.failPayout = nil
	if _, err := f.svc.Payout(ctx, admin, "bk-1", "item-a"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if f.provider.payees != 1 {
		t.Fatalf("payees = %d, want 1", f.provider.payees)
	}
}

func TestPayoutGuards(t *testing.T) {
	t.Run("no destination", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.svc.Payout(context.Background(), admin, "bk-1", "item-a")
		if !apperrors.HasCode(err, apperrors.CodeNoPayoutDestination) {
			t.Fatalf("err = %v, want NoPayoutDestination", err)
		}
	})
	t.Run("not completed", func(t *testing.T) {
		f := newFixture(t, bankAccount())
		ctx := context.Background()
		stored, _ := f.bookings.GetByID(ctx, "bk-1")
		stored.Items[0].Status = models.ItemInProgress
		if err := f.bookings.Update(ctx, stored, stored.Version); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if _, err := f.svc.Payout(ctx, admin, "bk-1", "item-a"); !apperrors.Is(err, apperrors.KindInvalidState) {
			t.Fatalf("err = %v, want InvalidState", err)
		}
	})
	t.Run("partner caller", func(t *testing.T) {
		f := newFixture(t, bankAccount())
		_, err := f.svc.Payout(context.Background(), models.Actor{ID: "p-1", Role: models.RolePartner}, "bk-1", "item-a")
		if !apperrors.Is(err, apperrors.KindForbidden) {
			t.Fatalf("err = %v, want Forbidden", err)
		}
	})
	t.Run("vpa unsupported", func(t *testing.T) {
		f := newFixture(t, &models.BankDetails{VPA: "ravi@upi"})
		f.provider.failFunding = ErrUnsupportedDestination
		_, err := f.svc.Payout(context.Background(), admin, "bk-1", "item-a")
		if !apperrors.Is(err, apperrors.KindExternalServiceFailure) || !errors.Is(err, ErrUnsupportedDestination) {
			t.Fatalf("err = %v, want wrapped ErrUnsupportedDestination", err)
		}
	})
}

func TestEarningsSummary(t *testing.T) {
	f := newFixture(t, bankAccount())
	ctx := context.Background()
	partner := models.Actor{ID: "p-1", Role: models.RolePartner}

	if _, err := f.svc.Payout(ctx, admin, "bk-1", "item-a"); err != nil {
		t.Fatalf("Payout: %v", err)
	}
	sum, err := f.svc.EarningsSummary(ctx, partner)
	if err != nil {
		t.Fatalf("EarningsSummary: %v", err)
	}
	if sum.TotalPaid != 800 || sum.PendingPayout != 1600 || len(sum.Transactions) != 2 {
		t.Fatalf("summary = %+v", sum)
	}

	details, err := f.svc.PartnerDetails(ctx, "p-1")
	if err != nil {
		t.Fatalf("PartnerDetails: %v", err)
	}
	if details.TotalPaid != 800 || details.PendingPayout != 1600 || details.CompletedJobs != 2 {
		t.Fatalf("details = %+v", details)
	}
}

func TestEarningsCountEveryCompletedBooking(t *testing.T) {
	f := newFixture(t, bankAccount())
	ctx := context.Background()

	const extra = 250
	for i := 0; i < extra; i++ {
		err := f.bookings.Create(ctx, &models.Booking{
			ID:          fmt.Sprintf("bk-x%03d", i),
			BookingID:   fmt.Sprintf("METRO-20261016-%08d", i),
			CustomerID:  "cust-1",
			BookingDate: "2026-10-21",
			Status:      models.BookingCompleted,
			Items: []models.BookingItem{
				{ID: "item", ServiceName: "Plumbing", Quantity: 1, TotalPrice: 500, PartnerID: "p-1", Status: models.ItemCompletedByPartner, PayoutStatus: models.PayoutPending},
			},
		})
		if err != nil {
			t.Fatalf("seed booking %d: %v", i, err)
		}
	}

	listed, err := f.bookings.ListForPartner(ctx, "p-1")
	if err != nil {
		t.Fatalf("ListForPartner: %v", err)
	}
	if len(listed) >= extra+1 {
		t.Fatalf("listing returned %d bookings, want it capped", len(listed))
	}

	sum, err := f.svc.EarningsSummary(ctx, models.Actor{ID: "p-1", Role: models.RolePartner})
	if err != nil {
		t.Fatalf("EarningsSummary: %v", err)
	}
	// 3000 from bk-1 plus 250 x 500, at an 80% share.
	if want := int64(2400 + extra*400); sum.PendingPayout != want || len(sum.Transactions) != extra+2 {
		t.Fatalf("pending = %d over %d transactions, want %d over %d", sum.PendingPayout, len(sum.Transactions), want, extra+2)
	}

	details, err := f.svc.PartnerDetails(ctx, "p-1")
	if err != nil {
		t.Fatalf("PartnerDetails: %v", err)
	}
	if details.CompletedJobs != extra+2 {
		t.Fatalf("completed jobs = %d, want %d", details.CompletedJobs, extra+2)
	}
}

func TestPayoutRejectsFundingForReplacedBankAccount(t *testing.T) {
	f := newFixture(t, bankAccount())
	ctx := context.Background()

	replacement := models.BankDetails{AccountHolderName: "Ravi", AccountNumber: "999988887777", IFSCCode: "ICIC0004321"}
	f.provider.onFunding = func() {
		f.provider.onFunding = nil
		if err := f.users.UpdateBankDetails(ctx, "p-1", replacement); err != nil {
			t.Errorf("UpdateBankDetails: %v", err)
		}
	}

	_, err := f.svc.Payout(ctx, admin, "bk-1", "item-a")
	if !apperrors.Is(err, apperrors.KindConflict) {
		t.Fatalf("Payout err = %v, want conflict", err)
	}
	if len(f.provider.payouts) != 0 {
		t.Fatalf("payout submitted to the replaced account: %+v", f.provider.payouts)
	}
	partner, _ := f.users.GetByID(ctx, "p-1")
	if partner.BankDetails.AccountNumber != "999988887777" || partner.BankDetails.FundAccountID != "" {
		t.Fatalf("bank details after conflict = %+v", partner.BankDetails)
	}
	b, _ := f.bookings.GetByID(ctx, "bk-1")
	if b.Items[0].Status != models.ItemCompletedByPartner || b.Items[0].PayoutStatus != models.PayoutPending {
		t.Fatalf("item changed: %+v", b.Items[0])
	}

	// A retry provisions the new account.
	if _, err := f.svc.Payout(ctx, admin, "bk-1", "item-a"); err != nil {
		t.Fatalf("retry Payout: %v", err)
	}
	if len(f.provider.funded) != 2 || f.provider.funded[1] != "999988887777" {
		t.Fatalf("funded accounts = %v", f.provider.funded)
	}
}
