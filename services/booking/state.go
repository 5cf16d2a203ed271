package booking

import (
	"fmt"
	"strings"
	"time"

	"metro/apperrors"
	"metro/models"
)

// EventType names an edge of the item job state machine.
type EventType string

const (
	EventBroadcastAccept EventType = "BroadcastAccept"
	EventDirectAssign    EventType = "DirectAssign"
	EventConfirm         EventType = "Confirm"
	EventDecline         EventType = "Decline"
	EventStart           EventType = "Start"
	EventPartnerComplete EventType = "PartnerComplete"
	EventPayoutSettled   EventType = "PayoutSettled"
)

// Event is one requested item transition.
type Event struct {
	Type      EventType
	PartnerID string // Partner taking the item on accept and direct assign
	Reason    string // Required on decline
	At        time.Time
}

type edge struct {
	from  models.ItemStatus
	event EventType
}

var itemTransitions = map[edge]models.ItemStatus{
	{models.ItemPendingAssignment, EventBroadcastAccept}:  models.ItemAssigned,
	{models.ItemPendingAssignment, EventDirectAssign}:     models.ItemPendingPartnerConfirmation,
	{models.ItemPendingPartnerConfirmation, EventConfirm}: models.ItemAssigned,
	{models.ItemPendingPartnerConfirmation, EventDecline}: models.ItemPendingAssignment,
	{models.ItemAssigned, EventStart}:                     models.ItemInProgress,
	{models.ItemInProgress, EventPartnerComplete}:         models.ItemCompletedByPartner,
	{models.ItemCompletedByPartner, EventPayoutSettled}:   models.ItemCompleted,
}

// NextItemStatus returns the status reached from `from` through ev.
func NextItemStatus(from models.ItemStatus, ev EventType) (models.ItemStatus, error) {
	to, ok := itemTransitions[edge{from, ev}]
	if !ok {
		return "", apperrors.InvalidState(fmt.Sprintf("cannot %s an item that is %s", strings.ToLower(string(ev)), from))
	}
	return to, nil
}

// ApplyItemEvent moves the item along one edge of the state machine, keeping the
// partner assignment consistent with the new status. The item is left untouched on error.
func ApplyItemEvent(it *models.BookingItem, ev Event) error {
	if ev.Type == EventBroadcastAccept || ev.Type == EventDirectAssign {
		if it.PartnerID != "" {
			return apperrors.AlreadyAssigned()
		}
		if ev.PartnerID == "" {
			return apperrors.Validation("partnerId is required")
		}
		if it.WasRejectedBy(ev.PartnerID) {
			return apperrors.InvalidState("partner has already declined this item")
		}
	}
	if ev.Type == EventDecline && strings.TrimSpace(ev.Reason) == "" {
		return apperrors.Validation("a reason is required to decline")
	}

	to, err := NextItemStatus(it.Status, ev.Type)
	if err != nil {
		return err
	}

	switch ev.Type {
	case EventBroadcastAccept, EventDirectAssign:
		it.PartnerID = ev.PartnerID
	case EventDecline:
		at := ev.At
		if at.IsZero() {
			at = time.Now().UTC()
		}
		it.RejectedBy = append(it.RejectedBy, models.Rejection{
			PartnerID:  it.PartnerID,
			Reason:     strings.TrimSpace(ev.Reason),
			RejectedAt: at,
		})
		it.PartnerID = ""
	}
	it.Status = to
	return nil
}

// CheckItemInvariant verifies that an item has a partner exactly when it has left PendingAssignment.
func CheckItemInvariant(it *models.BookingItem) error {
	hasPartner := it.PartnerID != ""
	needsPartner := it.Status != models.ItemPendingAssignment
	if hasPartner != needsPartner {
		return apperrors.Internal(fmt.Sprintf("item %s is %s with partner %q", it.ID, it.Status, it.PartnerID), nil)
	}
	return nil
}
