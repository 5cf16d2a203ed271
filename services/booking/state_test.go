package booking

import (
	"testing"

	"metro/apperrors"
	"metro/models"
)

func TestApplyItemEventLegalEdges(t *testing.T) {
	tests := []struct {
		name        string
		from        models.ItemStatus
		partner     string
		event       Event
		want        models.ItemStatus
		wantPartner string
	}{
		{"broadcast accept", models.ItemPendingAssignment, "", Event{Type: EventBroadcastAccept, PartnerID: "p1"}, models.ItemAssigned, "p1"},
		{"direct assign", models.ItemPendingAssignment, "", Event{Type: EventDirectAssign, PartnerID: "p1"}, models.ItemPendingPartnerConfirmation, "p1"},
		{"confirm", models.ItemPendingPartnerConfirmation, "p1", Event{Type: EventConfirm}, models.ItemAssigned, "p1"},
		{"decline", models.ItemPendingPartnerConfirmation, "p1", Event{Type: EventDecline, Reason: "too far"}, models.ItemPendingAssignment, ""},
		{"start", models.ItemAssigned, "p1", Event{Type: EventStart}, models.ItemInProgress, "p1"},
		{"partner complete", models.ItemInProgress, "p1", Event{Type: EventPartnerComplete}, models.ItemCompletedByPartner, "p1"},
		{"payout settled", models.ItemCompletedByPartner, "p1", Event{Type: EventPayoutSettled}, models.ItemCompleted, "p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &models.BookingItem{ID: "i1", Status: tt.from, PartnerID: tt.partner}
			if err := ApplyItemEvent(it, tt.event); err != nil {
				t.Fatalf("ApplyItemEvent: %v", err)
			}
			if it.Status != tt.want || it.PartnerID != tt.wantPartner {
				t.Fatalf("got %s/%q, want %s/%q", it.Status, it.PartnerID, tt.want, tt.wantPartner)
			}
			if err := CheckItemInvariant(it); err != nil {
				t.Fatalf("invariant: %v", err)
			}
		})
	}
}

func TestApplyItemEventRejectsIllegalEdges(t *testing.T) {
	statuses := []models.ItemStatus{
		models.ItemPendingAssignment,
		models.ItemPendingPartnerConfirmation,
		models.ItemAssigned,
		models.ItemInProgress,
		models.ItemCompletedByPartner,
		models.ItemCompleted,
	}
	events := []EventType{EventConfirm, EventDecline, EventStart, EventPartnerComplete, EventPayoutSettled}

	for _, from := range statuses {
		for _, ev := range events {
			if _, legal := itemTransitions[edge{from, ev}]; legal {
				continue
			}
			partner := "p1"
			if from == models.ItemPendingAssignment {
				partner = ""
			}
			it := &models.BookingItem{ID: "i1", Status: from, PartnerID: partner}
			err := ApplyItemEvent(it, Event{Type: ev, Reason: "r"})
			if !apperrors.Is(err, apperrors.KindInvalidState) {
				t.Fatalf("%s from %s: err = %v, want InvalidState", ev, from, err)
			}
			if it.Status != from || it.PartnerID != partner {
				t.Fatalf("%s from %s mutated the item", ev, from)
			}
		}
	}
}

func TestApplyItemEventAssignmentGuards(t *testing.T) {
	t.Run("already assigned", func(t *testing.T) {
		it := &models.BookingItem{Status: models.ItemAssigned, PartnerID: "p1"}
		err := ApplyItemEvent(it, Event{Type: EventBroadcastAccept, PartnerID: "p2"})
		if !apperrors.HasCode(err, apperrors.CodeAlreadyAssigned) {
			t.Fatalf("err = %v, want AlreadyAssigned", err)
		}
	})

	t.Run("declined partner cannot come back", func(t *testing.T) {
		it := &models.BookingItem{Status: models.ItemPendingPartnerConfirmation, PartnerID: "p1"}
		if err := ApplyItemEvent(it, Event{Type: EventDecline, Reason: "too far"}); err != nil {
			t.Fatalf("decline: %v", err)
		}
		for _, ev := range []EventType{EventBroadcastAccept, EventDirectAssign} {
			err := ApplyItemEvent(it, Event{Type: ev, PartnerID: "p1"})
			if !apperrors.Is(err, apperrors.KindInvalidState) {
				t.Fatalf("%s after decline: err = %v, want InvalidState", ev, err)
			}
		}
		if len(it.RejectedBy) != 1 || it.RejectedBy[0].PartnerID != "p1" || it.RejectedBy[0].Reason != "too far" {
			t.Fatalf("rejectedBy = %+v", it.RejectedBy)
		}
	})

	t.Run("decline needs a reason", func(t *testing.T) {
		it := &models.BookingItem{Status: models.ItemPendingPartnerConfirmation, PartnerID: "p1"}
		err := ApplyItemEvent(it, Event{Type: EventDecline, Reason: "  "})
		if !apperrors.Is(err, apperrors.KindValidationFailed) {
			t.Fatalf("err = %v, want ValidationFailed", err)
		}
		if it.PartnerID != "p1" || len(it.RejectedBy) != 0 {
			t.Fatalf("item mutated on failed decline: %+v", it)
		}
	})
}
