package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RolePartner  Role = "partner"
	RoleAdmin    Role = "admin"
)

type PartnerStatus string

const (
	PartnerPending   PartnerStatus = "Pending"
	PartnerApproved  PartnerStatus = "Approved"
	PartnerRejected  PartnerStatus = "Rejected"
	PartnerSuspended PartnerStatus = "Suspended"
)

// User is a customer, partner or admin account. Accounts are created by the auth service.
type User struct {
	ID             string           `bson:"id" json:"id"`
	Name           string           `bson:"name" json:"name"`
	Email          string           `bson:"email,omitempty" json:"email,omitempty"`
	MobileNumber   string           `bson:"mobile_number" json:"mobileNumber"`
	Role           Role             `bson:"role" json:"role"`
	Status         PartnerStatus    `bson:"status,omitempty" json:"status,omitempty"`
	AvatarURL      string           `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	FCMToken       string           `bson:"fcm_token,omitempty" json:"-"`
	Rating         float64          `bson:"rating" json:"rating"`
	BankDetails    *BankDetails     `bson:"bank_details,omitempty" json:"bankDetails,omitempty"`
	PartnerProfile *PartnerProfile  `bson:"partner_profile,omitempty" json:"partnerProfile,omitempty"`
	Availability   map[string][]int `bson:"availability,omitempty" json:"availability,omitempty"` // Date -> blocked hours
	CreatedAt      time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `bson:"updated_at" json:"updatedAt"`
}

// BankDetails is a partner's payout destination.
type BankDetails struct {
	AccountHolderName string `bson:"account_holder_name" json:"accountHolderName"`
	AccountNumber     string `bson:"account_number,omitempty" json:"accountNumber,omitempty"`
	IFSCCode          string `bson:"ifsc_code,omitempty" json:"ifscCode,omitempty"`
	VPA               string `bson:"vpa,omitempty" json:"vpa,omitempty"`
	FundAccountID     string `bson:"fund_account_id,omitempty" json:"fundAccountId,omitempty"` // Provisioned lazily on first payout
}

// HasBankAccount reports whether an account number and IFSC are both on file.
func (b *BankDetails) HasBankAccount() bool {
	return b != nil && b.AccountNumber != "" && b.IFSCCode != ""
}

// HasVPA reports whether a UPI handle is on file.
func (b *BankDetails) HasVPA() bool {
	return b != nil && b.VPA != ""
}

type PartnerProfile struct {
	Bio                 string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills              []string `bson:"skills" json:"skills"`
	ServiceablePincodes []string `bson:"serviceable_pincodes" json:"serviceablePincodes"`
	ContactID           string   `bson:"contact_id,omitempty" json:"contactId,omitempty"` // Payee id at the payout provider
}

// PartnerQuery selects broadcast and assignment candidates.
type PartnerQuery struct {
	Skill      string
	Pincode    string
	ExcludeIDs []string
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}
