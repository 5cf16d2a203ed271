package models

import "time"

// Review is a customer's rating of the partner who served a booking. One per booking.
type Review struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"booking_id" json:"bookingId"`
	CustomerID string    `bson:"customer_id" json:"customerId"`
	PartnerID  string    `bson:"partner_id" json:"partnerId"`
	ServiceID  string    `bson:"service_id" json:"serviceId"`
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	IsApproved bool      `bson:"is_approved" json:"isApproved"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// ReviewSummary aggregates approved reviews of a partner.
type ReviewSummary struct {
	PartnerID    string      `json:"partnerId"`
	Average      float64     `json:"average"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
	Reviews      []Review    `json:"reviews"`
}

// ReviewFilter narrows the admin review listing. Zero values match everything.
type ReviewFilter struct {
	Rating     int
	PartnerID  string
	CustomerID string
}

type UpdateReviewStatusRequest struct {
	IsApproved *bool `json:"isApproved" binding:"required"`
}

type SubmitReviewRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	PartnerID string `json:"partnerId" binding:"required"`
	ServiceID string `json:"serviceId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=1000"`
}
