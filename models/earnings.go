package models

import "time"

// EarningsSummary is a partner's payout history. Amounts are in paise.
type EarningsSummary struct {
	TotalPaid     int64                `json:"totalPaid"`
	PendingPayout int64                `json:"pendingPayout"`
	Transactions  []EarningTransaction `json:"transactions"`
}

// EarningTransaction is one item the partner has completed.
type EarningTransaction struct {
	BookingID     string       `json:"bookingId"`
	BookingCode   string       `json:"bookingCode"`
	ItemID        string       `json:"itemId"`
	ServiceName   string       `json:"serviceName"`
	BookingDate   string       `json:"bookingDate"`
	ItemTotal     int64        `json:"itemTotal"`
	Commission    int64        `json:"commission"`
	Earnings      int64        `json:"earnings"`
	PayoutStatus  PayoutStatus `json:"payoutStatus"`
	TransactionID string       `json:"transactionId,omitempty"`
	PayoutDate    *time.Time   `json:"payoutDate,omitempty"`
}

// PartnerDetails is the admin view of a partner with their payout position.
type PartnerDetails struct {
	Partner       User  `json:"partner"`
	PendingPayout int64 `json:"pendingPayout"`
	TotalPaid     int64 `json:"totalPaid"`
	CompletedJobs int   `json:"completedJobs"`
}
