package models

type BankDetailsRequest struct {
	AccountHolderName string `json:"accountHolderName" binding:"required"`
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
	VPA               string `json:"vpa"`
}

type AvailabilityRequest struct {
	Date         string `json:"date" binding:"required"`
	BlockedHours []int  `json:"blockedHours"`
}

type Availability struct {
	Date         string `json:"date"`
	BlockedHours []int  `json:"blockedHours"`
}

type UpdateProfileRequest struct {
	Bio                 string   `json:"bio" binding:"max=2000"`
	Skills              []string `json:"skills"`
	ServiceablePincodes []string `json:"serviceablePincodes"`
}
