package models

// CreateBookingRequest is the checkout payload of a customer.
type CreateBookingRequest struct {
	Items          []BookingItemInput `json:"items" binding:"required,min=1,dive"`
	BookingDate    string             `json:"bookingDate" binding:"required"` // YYYY-MM-DD
	SlotTime       string             `json:"slotTime" binding:"required"`
	Address        string             `json:"address" binding:"required"`
	Pincode        string             `json:"pincode"`
	TotalPrice     int64              `json:"totalPrice" binding:"required,gt=0"`
	PaymentMethod  PaymentMethod      `json:"paymentMethod" binding:"required"`
	AmountPaid     int64              `json:"amountPaid"`
	PaymentDetails PaymentDetails     `json:"paymentDetails"`
}

// BookingItemInput is one line of the checkout cart, priced from the catalog snapshot.
type BookingItemInput struct {
	ServiceID       string           `json:"serviceId" binding:"required"`
	ServiceName     string           `json:"serviceName" binding:"required"`
	Quantity        int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice       int64            `json:"unitPrice" binding:"gte=0"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

// LineTotal is (unit price + option prices) * quantity.
func (in BookingItemInput) LineTotal() int64 {
	unit := in.UnitPrice
	for _, o := range in.SelectedOptions {
		unit += o.Price
	}
	return unit * int64(in.Quantity)
}

type RescheduleRequest struct {
	BookingDate string `json:"bookingDate" binding:"required"`
	SlotTime    string `json:"slotTime" binding:"required"`
}

type PayRemainingRequest struct {
	PaymentDetails PaymentDetails `json:"paymentDetails"`
}

// CustomerBooking is a booking as listed to its owner.
type CustomerBooking struct {
	Booking
	IsRated bool `json:"isRated"`
}

// CustomerDashboard is the customer home screen summary.
type CustomerDashboard struct {
	Upcoming        *Booking  `json:"upcoming"`
	RecentCompleted []Booking `json:"recentCompleted"`
}
