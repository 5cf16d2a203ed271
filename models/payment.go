package models

type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "Online"
	PaymentCOD    PaymentMethod = "COD"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "Pending"
	PaymentPaid          PaymentStatus = "Paid"
	PaymentPartiallyPaid PaymentStatus = "PartiallyPaid"
	PaymentFailed        PaymentStatus = "Failed"
)

// PaymentDetails is the gateway proof attached to an online payment.
type PaymentDetails struct {
	OrderID   string `bson:"order_id,omitempty" json:"orderId,omitempty"`
	PaymentID string `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	Signature string `bson:"signature,omitempty" json:"signature,omitempty"`
}

// Complete reports whether all proof fields are present.
func (p PaymentDetails) Complete() bool {
	return p.OrderID != "" && p.PaymentID != "" && p.Signature != ""
}
