package booking

import "metro/models"

// DeriveStatus projects the booking status from its items, its outstanding broadcast
// and its cancellation. It never reads the stored status.
func DeriveStatus(b *models.Booking) models.BookingStatus {
	if b.CancelledAt != nil {
		return models.BookingCancelled
	}
	if len(b.Items) == 0 {
		return models.BookingPending
	}

	completed, withPartner := 0, 0
	for _, it := range b.Items {
		if it.Status == models.ItemCompleted {
			completed++
		}
		if it.PartnerID != "" {
			withPartner++
		}
	}

	switch {
	case completed == len(b.Items):
		return models.BookingCompleted
	case withPartner == len(b.Items):
		return models.BookingConfirmed
	case withPartner > 0:
		return models.BookingPartiallyAssigned
	case len(b.BroadcastedTo) > 0:
		return models.BookingSearching
	default:
		return models.BookingPending
	}
}

// IsClosed reports whether the booking accepts no further changes.
func IsClosed(b *models.Booking) bool {
	s := DeriveStatus(b)
	return s == models.BookingCompleted || s == models.BookingCancelled
}
