package partner

import (
	"context"
	"reflect"
	"testing"

	"metro/apperrors"
	memoryRepo "metro/database/repository/memory"
	"metro/models"
)

var pro = models.Actor{ID: "p-1", Role: models.RolePartner}

func setup(t *testing.T) (*DefaultPartnerService, *memoryRepo.UserStore) {
	t.Helper()
	users := memoryRepo.NewUserStore()
	err := users.Create(context.Background(), &models.User{
		ID:             "p-1",
		Role:           models.RolePartner,
		Status:         models.PartnerApproved,
		BankDetails:    &models.BankDetails{AccountHolderName: "Ravi", AccountNumber: "000111222333", IFSCCode: "HDFC0001234", FundAccountID: "ba_old"},
		PartnerProfile: &models.PartnerProfile{Skills: []string{"Plumbing"}, ContactID: "acct_1"},
	})
	if err != nil {
		t.Fatalf("create partner: %v", err)
	}
	return NewPartnerService(users, nil), users
}

func TestUpdateBankDetailsResetsFundingDestination(t *testing.T) {
	svc, users := setup(t)
	ctx := context.Background()

	got, err := svc.UpdateBankDetails(ctx, pro, models.BankDetailsRequest{AccountHolderName: "Ravi K", VPA: "ravi@okhdfc"})
	if err != nil {
		t.Fatalf("UpdateBankDetails: %v", err)
	}
	if got.VPA != "ravi@okhdfc" {
		t.Fatalf("response = %+v", got)
	}
	stored, _ := users.GetByID(ctx, "p-1")
	if stored.BankDetails.FundAccountID != "" || stored.BankDetails.AccountNumber != "" {
		t.Fatalf("stored = %+v", stored.BankDetails)
	}
	if stored.PartnerProfile.ContactID != "acct_1" {
		t.Fatal("payee id must survive a bank change")
	}
}

func TestUpdateBankDetailsValidation(t *testing.T) {
	svc, _ := setup(t)
	tests := map[string]models.BankDetailsRequest{
		"nothing":         {AccountHolderName: "Ravi"},
		"bad ifsc":        {AccountHolderName: "Ravi", AccountNumber: "000111222333", IFSCCode: "HDFC1234"},
		"short account":   {AccountHolderName: "Ravi", AccountNumber: "1234", IFSCCode: "HDFC0001234"},
		"account no ifsc": {AccountHolderName: "Ravi", AccountNumber: "000111222333"},
		"bad vpa":         {AccountHolderName: "Ravi", VPA: "not-a-handle"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.UpdateBankDetails(context.Background(), pro, req); !apperrors.Is(err, apperrors.KindValidationFailed) {
				t.Fatalf("err = %v, want ValidationFailed", err)
			}
		})
	}
}

func TestGetBankDetailsMasks(t *testing.T) {
	svc, _ := setup(t)
	got, err := svc.GetBankDetails(context.Background(), pro)
	if err != nil {
		t.Fatalf("GetBankDetails: %v", err)
	}
	if got.AccountNumber != "XXXXXXXX2333" || got.FundAccountID != "" {
		t.Fatalf("got = %+v", got)
	}
}

func TestAvailability(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	got, err := svc.SetAvailability(ctx, pro, models.AvailabilityRequest{Date: "2026-10-20", BlockedHours: []int{14, 9, 14, 0}})
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if !reflect.DeepEqual(got.BlockedHours, []int{0, 9, 14}) {
		t.Fatalf("blocked = %v", got.BlockedHours)
	}
	read, err := svc.GetAvailability(ctx, pro, "2026-10-20")
	if err != nil || !reflect.DeepEqual(read.BlockedHours, []int{0, 9, 14}) {
		t.Fatalf("GetAvailability = %+v, %v", read, err)
	}
	free, err := svc.GetAvailability(ctx, pro, "2026-10-21")
	if err != nil || len(free.BlockedHours) != 0 {
		t.Fatalf("free day = %+v, %v", free, err)
	}

	if _, err := svc.SetAvailability(ctx, pro, models.AvailabilityRequest{Date: "2026-10-20", BlockedHours: []int{24}}); !apperrors.Is(err, apperrors.KindValidationFailed) {
		t.Fatalf("hour 24 err = %v", err)
	}
	if _, err := svc.GetAvailability(ctx, pro, "20-10-2026"); !apperrors.Is(err, apperrors.KindValidationFailed) {
		t.Fatalf("bad date err = %v", err)
	}
	if _, err := svc.GetAvailability(ctx, models.Actor{ID: "c-1", Role: models.RoleCustomer}, "2026-10-20"); !apperrors.Is(err, apperrors.KindForbidden) {
		t.Fatalf("customer err = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := setup(t)
	got, err := svc.UpdateProfile(context.Background(), pro, models.UpdateProfileRequest{
		Bio:                 " Ten years of plumbing ",
		Skills:              []string{"Plumbing", "Electrical", "Plumbing"},
		ServiceablePincodes: []string{"560001"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.PartnerProfile.Bio != "Ten years of plumbing" || len(got.PartnerProfile.Skills) != 2 {
		t.Fatalf("profile = %+v", got.PartnerProfile)
	}
	if got.BankDetails.AccountNumber != "XXXXXXXX2333" {
		t.Fatalf("bank details not masked: %+v", got.BankDetails)
	}

	_, err = svc.UpdateProfile(context.Background(), pro, models.UpdateProfileRequest{Skills: []string{"Plumbing"}, ServiceablePincodes: []string{"0123"}})
	if !apperrors.Is(err, apperrors.KindValidationFailed) {
		t.Fatalf("bad pincode err = %v", err)
	}
}
