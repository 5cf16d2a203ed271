package review

import (
	"context"
	"testing"

	"metro/apperrors"
	memoryRepo "metro/database/repository/memory"
	"metro/models"
)

var customer = models.Actor{ID: "cust-1", Role: models.RoleCustomer}

func setup(t *testing.T) (*DefaultReviewService, *memoryRepo.UserStore) {
	t.Helper()
	ctx := context.Background()
	bookings := memoryRepo.NewBookingStore()
	users := memoryRepo.NewUserStore()
	if err := users.Create(ctx, &models.User{ID: "p-1", Role: models.RolePartner, Status: models.PartnerApproved}); err != nil {
		t.Fatalf("create partner: %v", err)
	}
	for _, id := range []string{"bk-1", "bk-2"} {
		b := &models.Booking{
			ID:            id,
			BookingID:     "METRO-" + id,
			CustomerID:    customer.ID,
			TotalPrice:    1000,
			AmountDue:     1000,
			PaymentMethod: models.PaymentCOD,
			BroadcastedTo: []string{},
			Items: []models.BookingItem{
				{ID: "item-a", ServiceID: "svc-clean", ServiceName: "Deep Cleaning", Quantity: 1, TotalPrice: 1000, PartnerID: "p-1", Status: models.ItemCompleted, PayoutStatus: models.PayoutPaid},
			},
		}
		if err := bookings.Create(ctx, b); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}
	return NewReviewService(memoryRepo.NewReviewStore(), bookings, users, nil), users
}

func TestSubmitAndSummary(t *testing.T) {
	svc, users := setup(t)
	ctx := context.Background()

	for i, rating := range []int{5, 4} {
		_, err := svc.Submit(ctx, customer, models.SubmitReviewRequest{
			BookingID: []string{"bk-1", "bk-2"}[i],
			PartnerID: "p-1",
			ServiceID: "svc-clean",
			Rating:    rating,
		})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}

	sum, err := svc.Summary(ctx, "p-1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Count != 2 || sum.Average != 4.5 || sum.Distribution[5] != 1 || sum.Distribution[4] != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	p, _ := users.GetByID(ctx, "p-1")
	if p.Rating != 4.5 {
		t.Fatalf("partner rating = %v, want 4.5", p.Rating)
	}
}

func TestSubmitRejects(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	valid := models.SubmitReviewRequest{BookingID: "bk-1", PartnerID: "p-1", ServiceID: "svc-clean", Rating: 5}

	if _, err := svc.Submit(ctx, customer, valid); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	tests := []struct {
		name  string
		actor models.Actor
		mut   func(*models.SubmitReviewRequest)
		check func(error) bool
	}{
		{"duplicate", customer, func(r *models.SubmitReviewRequest) {}, func(err error) bool { return apperrors.HasCode(err, apperrors.CodeAlreadyReviewed) }},
		{"rating out of range", customer, func(r *models.SubmitReviewRequest) { r.BookingID = "bk-2"; r.Rating = 6 }, func(err error) bool { return apperrors.Is(err, apperrors.KindValidationFailed) }},
		{"wrong service", customer, func(r *models.SubmitReviewRequest) { r.BookingID = "bk-2"; r.ServiceID = "svc-other" }, func(err error) bool { return apperrors.Is(err, apperrors.KindValidationFailed) }},
		{"other customer", models.Actor{ID: "cust-2", Role: models.RoleCustomer}, func(r *models.SubmitReviewRequest) { r.BookingID = "bk-2" }, func(err error) bool { return apperrors.Is(err, apperrors.KindForbidden) }},
		{"missing booking", customer, func(r *models.SubmitReviewRequest) { r.BookingID = "nope" }, func(err error) bool { return apperrors.Is(err, apperrors.KindNotFound) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mut(&req)
			_, err := svc.Submit(ctx, tt.actor, req)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestModerationRefreshesRating(t *testing.T) {
	svc, users := setup(t)
	ctx := context.Background()
	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}

	var ids []string
	for i, rating := range []int{5, 2} {
		r, err := svc.Submit(ctx, customer, models.SubmitReviewRequest{
			BookingID: []string{"bk-1", "bk-2"}[i],
			PartnerID: "p-1",
			ServiceID: "svc-clean",
			Rating:    rating,
		})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		ids = append(ids, r.ID)
	}

	if _, err := svc.SetApproval(ctx, customer, ids[1], false); !apperrors.Is(err, apperrors.KindForbidden) {
		t.Fatalf("customer SetApproval err = %v, want forbidden", err)
	}
	if _, err := svc.SetApproval(ctx, admin, ids[1], false); err != nil {
		t.Fatalf("SetApproval: %v", err)
	}
	if p, _ := users.GetByID(ctx, "p-1"); p.Rating != 5 {
		t.Fatalf("rating after hide = %v, want 5", p.Rating)
	}
	sum, _ := svc.Summary(ctx, "p-1")
	if sum.Count != 1 {
		t.Fatalf("summary still counts hidden review: %+v", sum)
	}

	list, err := svc.List(ctx, models.ReviewFilter{Rating: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != ids[1] || list[0].IsApproved {
		t.Fatalf("admin list = %+v", list)
	}
	if _, err := svc.List(ctx, models.ReviewFilter{Rating: 9}); !apperrors.Is(err, apperrors.KindValidationFailed) {
		t.Fatalf("List bad rating err = %v", err)
	}

	if err := svc.Delete(ctx, admin, ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if p, _ := users.GetByID(ctx, "p-1"); p.Rating != 0 {
		t.Fatalf("rating after delete = %v, want 0", p.Rating)
	}
	if err := svc.Delete(ctx, admin, ids[0]); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("second Delete err = %v, want not found", err)
	}
}
