package models

import "time"

// BookingStatus is the booking-level projection of its items.
type BookingStatus string

const (
	BookingPending           BookingStatus = "Pending"
	BookingSearching         BookingStatus = "Searching"
	BookingConfirmed         BookingStatus = "Confirmed"
	BookingPartiallyAssigned BookingStatus = "PartiallyAssigned"
	BookingCompleted         BookingStatus = "Completed"
	BookingCancelled         BookingStatus = "Cancelled"
)

// ItemStatus is the job state of a single booking item.
type ItemStatus string

const (
	ItemPendingAssignment          ItemStatus = "PendingAssignment"
	ItemPendingPartnerConfirmation ItemStatus = "PendingPartnerConfirmation"
	ItemAssigned                   ItemStatus = "Assigned"
	ItemInProgress                 ItemStatus = "InProgress"
	ItemCompletedByPartner         ItemStatus = "CompletedByPartner"
	ItemCompleted                  ItemStatus = "Completed"
)

type PayoutStatus string

const (
	PayoutPending PayoutStatus = "Pending"
	PayoutPaid    PayoutStatus = "Paid"
	PayoutFailed  PayoutStatus = "Failed"
)

// Booking is one customer purchase. Amounts are in paise.
type Booking struct {
	ID                 string          `bson:"id" json:"id"`
	BookingID          string          `bson:"booking_id" json:"bookingId"` // Human readable code, e.g. METRO-20261016-3F9A1C2B
	CustomerID         string          `bson:"customer_id" json:"customerId"`
	Items              []BookingItem   `bson:"items" json:"items"`
	BookingDate        string          `bson:"booking_date" json:"bookingDate"` // YYYY-MM-DD
	SlotTime           string          `bson:"slot_time" json:"slotTime"`
	Address            string          `bson:"address" json:"address"`
	Pincode            string          `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Status             BookingStatus   `bson:"status" json:"status"`
	TotalPrice         int64           `bson:"total_price" json:"totalPrice"`
	AmountPaid         int64           `bson:"amount_paid" json:"amountPaid"`
	AmountDue          int64           `bson:"amount_due" json:"amountDue"`
	PaymentMethod      PaymentMethod   `bson:"payment_method" json:"paymentMethod"`
	PaymentStatus      PaymentStatus   `bson:"payment_status" json:"paymentStatus"`
	PaymentDetails     PaymentDetails  `bson:"payment_details" json:"paymentDetails"`
	BalancePayment     *PaymentDetails `bson:"balance_payment,omitempty" json:"balancePayment,omitempty"` // Proof of the remaining-balance settlement
	BookingOTP         string          `bson:"booking_otp" json:"bookingOTP"`
	BroadcastedTo      []string        `bson:"broadcasted_to" json:"broadcastedTo"`
	AssignmentDeadline *time.Time      `bson:"assignment_deadline,omitempty" json:"assignmentDeadline,omitempty"` // Persisted only, never enforced
	CancelledAt        *time.Time      `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	Version            int             `bson:"version" json:"version"` // Optimistic concurrency counter
	CreatedAt          time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updated_at" json:"updatedAt"`
}

// BookingItem is one independently assignable unit of work.
type BookingItem struct {
	ID              string           `bson:"id" json:"id"`
	ServiceID       string           `bson:"service_id" json:"serviceId"`
	ServiceName     string           `bson:"service_name" json:"serviceName"`
	Quantity        int              `bson:"quantity" json:"quantity"`
	SelectedOptions []SelectedOption `bson:"selected_options" json:"selectedOptions"`
	TotalPrice      int64            `bson:"total_price" json:"totalPrice"`
	PartnerID       string           `bson:"partner_id,omitempty" json:"partnerId,omitempty"`
	Status          ItemStatus       `bson:"status" json:"status"`
	PayoutStatus    PayoutStatus     `bson:"payout_status" json:"payoutStatus"`
	PayoutDetails   *PayoutDetails   `bson:"payout_details,omitempty" json:"payoutDetails,omitempty"`
	RejectedBy      []Rejection      `bson:"rejected_by" json:"rejectedBy"`
}

type SelectedOption struct {
	GroupName  string `bson:"group_name" json:"groupName"`
	OptionName string `bson:"option_name" json:"optionName"`
	Price      int64  `bson:"price" json:"price"`
}

type PayoutDetails struct {
	TransactionID string    `bson:"transaction_id" json:"transactionId"`
	PayoutDate    time.Time `bson:"payout_date" json:"payoutDate"`
	Amount        int64     `bson:"amount" json:"amount"`
}

// Rejection records a partner declining an item.
type Rejection struct {
	PartnerID  string    `bson:"partner_id" json:"partnerId"`
	Reason     string    `bson:"reason" json:"reason"`
	RejectedAt time.Time `bson:"rejected_at" json:"rejectedAt"`
}

// Item returns the item with the given id.
func (b *Booking) Item(itemID string) (*BookingItem, bool) {
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			return &b.Items[i], true
		}
	}
	return nil, false
}

// IsBroadcastTo reports whether partnerID may claim an item through the current broadcast.
func (b *Booking) IsBroadcastTo(partnerID string) bool {
	for _, id := range b.BroadcastedTo {
		if id == partnerID {
			return true
		}
	}
	return false
}

// HasPartner reports whether partnerID holds any item of the booking.
func (b *Booking) HasPartner(partnerID string) bool {
	for _, it := range b.Items {
		if it.PartnerID == partnerID {
			return true
		}
	}
	return false
}

// WasRejectedBy reports whether partnerID has declined this item before.
func (it *BookingItem) WasRejectedBy(partnerID string) bool {
	for _, r := range it.RejectedBy {
		if r.PartnerID == partnerID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the booking.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.BroadcastedTo = append([]string(nil), b.BroadcastedTo...)
	if b.AssignmentDeadline != nil {
		t := *b.AssignmentDeadline
		c.AssignmentDeadline = &t
	}
	if b.CancelledAt != nil {
		t := *b.CancelledAt
		c.CancelledAt = &t
	}
	if b.BalancePayment != nil {
		bp := *b.BalancePayment
		c.BalancePayment = &bp
	}
	c.Items = make([]BookingItem, len(b.Items))
	for i, it := range b.Items {
		ci := it
		ci.SelectedOptions = append([]SelectedOption(nil), it.SelectedOptions...)
		ci.RejectedBy = append([]Rejection(nil), it.RejectedBy...)
		if it.PayoutDetails != nil {
			pd := *it.PayoutDetails
			ci.PayoutDetails = &pd
		}
		c.Items[i] = ci
	}
	return &c
}

// BookingFilter narrows admin booking listings.
type BookingFilter struct {
	Status   BookingStatus
	Search   string // Substring of the human readable booking code
	DateFrom string // Inclusive, YYYY-MM-DD
	DateTo   string // Inclusive, YYYY-MM-DD
	Limit    int
}
