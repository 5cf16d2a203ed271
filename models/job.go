package models

import "time"

type BroadcastRequest struct {
	MatchPincode bool `json:"matchPincode"`
	// Optional search window; stored as assignmentDeadline and not enforced.
	WindowMinutes int `json:"windowMinutes" binding:"gte=0"`
}

type AssignPartnerRequest struct {
	PartnerID string `json:"partnerId" binding:"required"`
}

type DeclineRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type StartJobRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// JobRequestKind tells a partner how an offer reached them.
type JobRequestKind string

const (
	JobRequestBroadcast JobRequestKind = "broadcast"
	JobRequestDirect    JobRequestKind = "direct"
)

// JobRequest is an open offer shown to a partner. It carries no customer payment data.
type JobRequest struct {
	Kind        JobRequestKind `json:"kind"`
	BookingID   string         `json:"bookingId"`
	BookingCode string         `json:"bookingCode"`
	BookingDate string         `json:"bookingDate"`
	SlotTime    string         `json:"slotTime"`
	Address     string         `json:"address"`
	Pincode     string         `json:"pincode,omitempty"`
	Items       []JobItem      `json:"items"`
}

type JobItem struct {
	ItemID      string     `json:"itemId"`
	ServiceID   string     `json:"serviceId"`
	ServiceName string     `json:"serviceName"`
	Quantity    int        `json:"quantity"`
	Status      ItemStatus `json:"status"`
	Earnings    int64      `json:"earnings"`
}

// PartnerJob is one item a partner holds or has declined.
type PartnerJob struct {
	BookingID     string         `json:"bookingId"`
	BookingCode   string         `json:"bookingCode"`
	BookingDate   string         `json:"bookingDate"`
	SlotTime      string         `json:"slotTime"`
	Address       string         `json:"address"`
	ItemID        string         `json:"itemId"`
	ServiceName   string         `json:"serviceName"`
	Quantity      int            `json:"quantity"`
	Status        string         `json:"status"` // Item status, or "Rejected" when declined by this partner
	PayoutStatus  PayoutStatus   `json:"payoutStatus,omitempty"`
	PayoutDetails *PayoutDetails `json:"payoutDetails,omitempty"`
	Earnings      int64          `json:"earnings"`
	RejectReason  string         `json:"rejectReason,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// PartnerBookingView is a booking as shown to a partner acting on it. It omits the
// customer's OTP, payment proofs and the broadcast list.
type PartnerBookingView struct {
	BookingID     string        `json:"bookingId"`
	BookingCode   string        `json:"bookingCode"`
	BookingDate   string        `json:"bookingDate"`
	SlotTime      string        `json:"slotTime"`
	Address       string        `json:"address"`
	Pincode       string        `json:"pincode,omitempty"`
	Status        BookingStatus `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	AmountDue     int64         `json:"amountDue"`
	Items         []JobItem     `json:"items"` // Only the items held by this partner
}
