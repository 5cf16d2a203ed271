package assignment

import (
	"context"

	"metro/apperrors"
	"metro/models"
	"metro/services/payment"
)

// ListJobRequests returns broadcasts the partner may still claim and direct
// assignments awaiting their answer.
func (s *DefaultAssignmentService) ListJobRequests(ctx context.Context, actor models.Actor) ([]models.JobRequest, error) {
	bookings, err := s.Bookings.ListJobRequests(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list job requests", err)
	}

	out := []models.JobRequest{}
	for i := range bookings {
		b := &bookings[i]
		var broadcast, direct []models.JobItem
		for _, it := range b.Items {
			switch {
			case it.Status == models.ItemPendingAssignment && b.IsBroadcastTo(actor.ID) && !it.WasRejectedBy(actor.ID):
				broadcast = append(broadcast, s.jobItem(it))
			case it.Status == models.ItemPendingPartnerConfirmation && it.PartnerID == actor.ID:
				direct = append(direct, s.jobItem(it))
			}
		}
		if len(broadcast) > 0 {
			out = append(out, jobRequest(b, models.JobRequestBroadcast, broadcast))
		}
		if len(direct) > 0 {
			out = append(out, jobRequest(b, models.JobRequestDirect, direct))
		}
	}
	return out, nil
}

// ListMyJobs returns every item the partner holds or has declined, with their earnings.
func (s *DefaultAssignmentService) ListMyJobs(ctx context.Context, actor models.Actor) ([]models.PartnerJob, error) {
	bookings, err := s.Bookings.ListForPartner(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list jobs", err)
	}

	out := []models.PartnerJob{}
	for _, b := range bookings {
		for _, it := range b.Items {
			job := models.PartnerJob{
				BookingID:   b.ID,
				BookingCode: b.BookingID,
				BookingDate: b.BookingDate,
				SlotTime:    b.SlotTime,
				Address:     b.Address,
				ItemID:      it.ID,
				ServiceName: it.ServiceName,
				Quantity:    it.Quantity,
				UpdatedAt:   b.UpdatedAt,
			}
			switch {
			case it.PartnerID == actor.ID:
				job.Status = string(it.Status)
				job.PayoutStatus = it.PayoutStatus
				job.PayoutDetails = it.PayoutDetails
				job.Earnings = payment.PartnerAmount(it.TotalPrice, s.PartnerShare)
			case it.WasRejectedBy(actor.ID):
				job.Status = "Rejected"
				for _, r := range it.RejectedBy {
					if r.PartnerID == actor.ID {
						job.RejectReason = r.Reason
					}
				}
			default:
				continue
			}
			out = append(out, job)
		}
	}
	return out, nil
}

// PartnerView projects b for partnerID, keeping only the items that partner holds.
func (s *DefaultAssignmentService) PartnerView(b *models.Booking, partnerID string) *models.PartnerBookingView {
	v := &models.PartnerBookingView{
		BookingID:     b.ID,
		BookingCode:   b.BookingID,
		BookingDate:   b.BookingDate,
		SlotTime:      b.SlotTime,
		Address:       b.Address,
		Pincode:       b.Pincode,
		Status:        b.Status,
		PaymentMethod: b.PaymentMethod,
		AmountDue:     b.AmountDue,
		Items:         []models.JobItem{},
	}
	for _, it := range b.Items {
		if it.PartnerID == partnerID {
			v.Items = append(v.Items, s.jobItem(it))
		}
	}
	return v
}

func (s *DefaultAssignmentService) jobItem(it models.BookingItem) models.JobItem {
	return models.JobItem{
		ItemID:      it.ID,
		ServiceID:   it.ServiceID,
		ServiceName: it.ServiceName,
		Quantity:    it.Quantity,
		Status:      it.Status,
		Earnings:    payment.PartnerAmount(it.TotalPrice, s.PartnerShare),
	}
}

func jobRequest(b *models.Booking, kind models.JobRequestKind, items []models.JobItem) models.JobRequest {
	return models.JobRequest{
		Kind:        kind,
		BookingID:   b.ID,
		BookingCode: b.BookingID,
		BookingDate: b.BookingDate,
		SlotTime:    b.SlotTime,
		Address:     b.Address,
		Pincode:     b.Pincode,
		Items:       items,
	}
}
