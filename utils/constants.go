// File: utils/constants.go
package utils

// PayoutLockPrefix is the prefix of the Redis keys serializing payouts per partner.
const PayoutLockPrefix = "payout:partner:"

// BookingOTPDigits is the length of the booking OTP handed to the customer.
const BookingOTPDigits = 4
