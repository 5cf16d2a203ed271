package assignment

import (
	"context"
	"sync"
	"testing"
	"time"

	"metro/apperrors"
	memoryRepo "metro/database/repository/memory"
	"metro/models"
)

var (
	admin = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	now   = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc      *DefaultAssignmentService
	bookings *memoryRepo.BookingStore
	users    *memoryRepo.UserStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bookings := memoryRepo.NewBookingStore()
	users := memoryRepo.NewUserStore()
	svc := NewAssignmentService(bookings, users, nil, 0.8)
	svc.Now = func() time.Time { return now }
	return &fixture{svc: svc, bookings: bookings, users: users}
}

func (f *fixture) partner(t *testing.T, id string, skills ...string) models.Actor {
	t.Helper()
	err := f.users.Create(context.Background(), &models.User{
		ID:     id,
		Name:   id,
		Role:   models.RolePartner,
		Status: models.PartnerApproved,
		PartnerProfile: &models.PartnerProfile{
			Skills:              skills,
			ServiceablePincodes: []string{"560001"},
		},
	})
	if err != nil {
		t.Fatalf("create partner %s: %v", id, err)
	}
	return models.Actor{ID: id, Role: models.RolePartner}
}

// seed stores a booking with one unassigned item per service name.
func (f *fixture) seed(t *testing.T, services ...string) *models.Booking {
	t.Helper()
	b := &models.Booking{
		ID:            "bk-1",
		BookingID:     "METRO-20261016-0000BK01",
		CustomerID:    "cust-1",
		BookingDate:   "2026-10-20",
		SlotTime:      "10:00",
		Address:       "12 MG Road",
		Pincode:       "560001",
		Status:        models.BookingPending,
		PaymentMethod: models.PaymentCOD,
		PaymentStatus: models.PaymentPending,
		BookingOTP:    "4821",
		BroadcastedTo: []string{},
		CreatedAt:     now,
	}
	for i, name := range services {
		b.Items = append(b.Items, models.BookingItem{
			ID:           "item-" + string(rune('a'+i)),
			ServiceID:    "svc-" + name,
			ServiceName:  name,
			Quantity:     1,
			TotalPrice:   1000,
			Status:       models.ItemPendingAssignment,
			PayoutStatus: models.PayoutPending,
			RejectedBy:   []models.Rejection{},
		})
		b.TotalPrice += 1000
	}
	b.AmountDue = b.TotalPrice
	if err := f.bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func TestDirectAssignThenDecline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.partner(t, "p-1", "Plumbing")
	b := f.seed(t, "Plumbing")

	got, err := f.svc.DirectAssign(ctx, admin, b.ID, "item-a", p.ID)
	if err != nil {
		t.Fatalf("DirectAssign: %v", err)
	}
	if got.Items[0].Status != models.ItemPendingPartnerConfirmation || got.Status != models.BookingConfirmed {
		t.Fatalf("after assign: item=%s booking=%s", got.Items[0].Status, got.Status)
	}

	got, err = f.svc.Decline(ctx, p, b.ID, "item-a", "too far")
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	it := got.Items[0]
	if it.Status != models.ItemPendingAssignment || it.PartnerID != "" {
		t.Fatalf("after decline: status=%s partner=%q", it.Status, it.PartnerID)
	}
	if len(it.RejectedBy) != 1 || it.RejectedBy[0].PartnerID != p.ID || it.RejectedBy[0].Reason != "too far" {
		t.Fatalf("rejectedBy = %+v", it.RejectedBy)
	}
	if got.Status != models.BookingPending {
		t.Fatalf("booking status = %s, want Pending", got.Status)
	}

	candidates, err := f.svc.Candidates(ctx, b.ID, "item-a", false)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("declined partner still offered: %+v", candidates)
	}
}

func TestDeclineRequiresReasonAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.partner(t, "p-1", "Plumbing")
	other := f.partner(t, "p-2", "Plumbing")
	b := f.seed(t, "Plumbing")

	if _, err := f.svc.DirectAssign(ctx, admin, b.ID, "item-a", p.ID); err != nil {
		t.Fatalf("DirectAssign: %v", err)
	}
	if _, err := f.svc.Decline(ctx, p, b.ID, "item-a", "  "); !apperrors.Is(err, apperrors.KindValidationFailed) {
		t.Fatalf("blank reason err = %v, want Validation", err)
	}
	if _, err := f.svc.Confirm(ctx, other, b.ID, "item-a"); !apperrors.Is(err, apperrors.KindForbidden) {
		t.Fatalf("confirm by other err = %v, want Forbidden", err)
	}
	got, err := f.svc.Confirm(ctx, p, b.ID, "item-a")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if got.Items[0].Status != models.ItemAssigned {
		t.Fatalf("item status = %s, want Assigned", got.Items[0].Status)
	}
}

func TestBroadcastPartialAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.partner(t, "p-1", "Plumbing")
	f.partner(t, "p-2", "Electrical")
	b := f.seed(t, "Plumbing", "Electrical")

	got, err := f.svc.Broadcast(ctx, admin, b.ID, models.BroadcastRequest{MatchPincode: true, WindowMinutes: 30})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if got.Status != models.BookingSearching || len(got.BroadcastedTo) != 2 {
		t.Fatalf("after broadcast: status=%s to=%v", got.Status, got.BroadcastedTo)
	}
	if got.AssignmentDeadline == nil || !got.AssignmentDeadline.Equal(now.Add(30*time.Minute)) {
		t.Fatalf("deadline = %v", got.AssignmentDeadline)
	}

	got, err = f.svc.Accept(ctx, p, b.ID, "item-a")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if got.Items[0].Status != models.ItemAssigned || got.Items[0].PartnerID != p.ID {
		t.Fatalf("item a: status=%s partner=%q", got.Items[0].Status, got.Items[0].PartnerID)
	}
	if got.Status != models.BookingPartiallyAssigned || len(got.BroadcastedTo) != 0 {
		t.Fatalf("booking: status=%s to=%v", got.Status, got.BroadcastedTo)
	}

	// Item B can be broadcast again.
	got, err = f.svc.Broadcast(ctx, admin, b.ID, models.BroadcastRequest{})
	if err != nil {
		t.Fatalf("re-broadcast: %v", err)
	}
	if len(got.BroadcastedTo) != 1 || got.BroadcastedTo[0] != "p-2" {
		t.Fatalf("re-broadcast to = %v", got.BroadcastedTo)
	}
}

func TestBroadcastGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, "Gardening")

	if _, err := f.svc.Broadcast(ctx, models.Actor{ID: "p-1", Role: models.RolePartner}, b.ID, models.BroadcastRequest{}); !apperrors.Is(err, apperrors.KindForbidden) {
		t.Fatalf("partner broadcast err = %v, want Forbidden", err)
	}
	if _, err := f.svc.Broadcast(ctx, admin, b.ID, models.BroadcastRequest{}); !apperrors.Is(err, apperrors.KindInvalidState) {
		t.Fatalf("no candidates err = %v, want InvalidState", err)
	}
	if _, err := f.svc.Broadcast(ctx, admin, "missing", models.BroadcastRequest{}); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("missing booking err = %v, want NotFound", err)
	}
}

func TestAcceptRequiresBroadcast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.partner(t, "p-1", "Plumbing")
	outsider := f.partner(t, "p-9", "Carpentry")
	b := f.seed(t, "Plumbing")

	if _, err := f.svc.Broadcast(ctx, admin, b.ID, models.BroadcastRequest{}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if _, err := f.svc.Accept(ctx, outsider, b.ID, "item-a"); !apperrors.Is(err, apperrors.KindForbidden) {
		t.Fatalf("outsider accept err = %v, want Forbidden", err)
	}
}

func TestConcurrentAcceptFirstWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const racers = 8
	actors := make([]models.Actor, racers)
	for i := range actors {
		actors[i] = f.partner(t, "p-"+string(rune('a'+i)), "Plumbing")
	}
	b := f.seed(t, "Plumbing")
	if _, err := f.svc.Broadcast(ctx, admin, b.ID, models.BroadcastRequest{}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, racers)
	)
	for i, a := range actors {
		wg.Add(1)
		go func(i int, a models.Actor) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.Accept(ctx, a, b.ID, "item-a")
		}(i, a)
	}
	close(start)
	wg.Wait()

	winners := 0
	winner := ""
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
			winner = actors[i].ID
		case apperrors.HasCode(err, apperrors.CodeAlreadyAssigned),
			apperrors.Is(err, apperrors.KindForbidden),
			apperrors.Is(err, apperrors.KindConflict):
		default:
			t.Errorf("racer %d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	stored, err := f.bookings.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Items[0].PartnerID != winner || stored.Status != models.BookingConfirmed {
		t.Fatalf("stored partner=%q status=%s, want %q Confirmed", stored.Items[0].PartnerID, stored.Status, winner)
	}
}

func TestStartJobOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.partner(t, "p-1", "Plumbing")
	b := f.seed(t, "Plumbing")

	if _, err := f.svc.DirectAssign(ctx, admin, b.ID, "item-a", p.ID); err != nil {
		t.Fatalf("DirectAssign: %v", err)
	}
	if _, err := f.svc.StartJob(ctx, p, b.ID, "item-a", "4821"); !apperrors.Is(err, apperrors.KindInvalidState) {
		t.Fatalf("start before confirm err = %v, want InvalidState", err)
	}
	if _, err := f.svc.Confirm(ctx, p, b.ID, "item-a"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if _, err := f.svc.StartJob(ctx, p, b.ID, "item-a", "0000"); !apperrors.HasCode(err, apperrors.CodeInvalidOTP) {
		t.Fatalf("wrong otp err = %v, want InvalidOTP", err)
	}
	stored, _ := f.bookings.GetByID(ctx, b.ID)
	if stored.Items[0].Status != models.ItemAssigned {
		t.Fatalf("item status after wrong otp = %s, want Assigned", stored.Items[0].Status)
	}

	got, err := f.svc.StartJob(ctx, p, b.ID, "item-a", "4821")
	if err != nil {
		t.Fatalf("StartJob retry: %v", err)
	}
	if got.Items[0].Status != models.ItemInProgress {
		t.Fatalf("item status = %s, want InProgress", got.Items[0].Status)
	}

	got, err = f.svc.CompleteJob(ctx, p, b.ID, "item-a")
	if err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	if got.Items[0].Status != models.ItemCompletedByPartner {
		t.Fatalf("item status = %s, want CompletedByPartner", got.Items[0].Status)
	}
	if _, err := f.svc.CompleteJob(ctx, p, b.ID, "item-a"); !apperrors.Is(err, apperrors.KindInvalidState) {
		t.Fatalf("double complete err = %v, want InvalidState", err)
	}
}

func TestPartnerListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.partner(t, "p-1", "Plumbing", "Electrical")
	b := f.seed(t, "Plumbing", "Electrical")

	if _, err := f.svc.Broadcast(ctx, admin, b.ID, models.BroadcastRequest{}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	reqs, err := f.svc.ListJobRequests(ctx, p)
	if err != nil {
		t.Fatalf("ListJobRequests: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Kind != models.JobRequestBroadcast || len(reqs[0].Items) != 2 {
		t.Fatalf("job requests = %+v", reqs)
	}
	if reqs[0].Items[0].Earnings != 800 {
		t.Fatalf("earnings = %d, want 800", reqs[0].Items[0].Earnings)
	}

	if _, err := f.svc.Accept(ctx, p, b.ID, "item-a"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	jobs, err := f.svc.ListMyJobs(ctx, p)
	if err != nil {
		t.Fatalf("ListMyJobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ItemID != "item-a" || jobs[0].Status != string(models.ItemAssigned) {
		t.Fatalf("jobs = %+v", jobs)
	}

	if _, err := f.svc.RejectRequest(ctx, p, b.ID); !apperrors.Is(err, apperrors.KindInvalidState) {
		t.Fatalf("reject after broadcast cleared err = %v, want InvalidState", err)
	}
}
