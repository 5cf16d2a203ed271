package models

// BookingConfirmationPayload is queued after checkout and delivered to the customer.
type BookingConfirmationPayload struct {
	CustomerID  string `json:"customerId"`
	BookingID   string `json:"bookingId"`
	BookingCode string `json:"bookingCode"`
	OTP         string `json:"otp"`
	BookingDate string `json:"bookingDate"`
	SlotTime    string `json:"slotTime"`
	AmountDue   int64  `json:"amountDue"`
}
