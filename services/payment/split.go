package payment

import "math"

// PartnerAmount is the partner's cut of an item price, rounded to the nearest paisa.
func PartnerAmount(itemTotal int64, share float64) int64 {
	return int64(math.Round(float64(itemTotal) * share))
}

// PlatformAmount is what the platform keeps of an item price.
func PlatformAmount(itemTotal int64, share float64) int64 {
	return itemTotal - PartnerAmount(itemTotal, share)
}
