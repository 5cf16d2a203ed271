package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"metro/apperrors"
	"metro/models"
)

// Verifier checks a gateway payment proof.
type Verifier interface {
	Verify(proof models.PaymentDetails) error
}

// HMACVerifier validates gateway signatures of the form
// hex(HMAC-SHA256(secret, orderId + "|" + paymentId)).
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Sign returns the expected signature for an order/payment pair.
func (v *HMACVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify fails with PaymentFieldsMissing when any proof field is empty and with
// PaymentVerificationFailed when the signature does not match.
func (v *HMACVerifier) Verify(proof models.PaymentDetails) error {
	if !proof.Complete() {
		return apperrors.PaymentFieldsMissing()
	}
	expected := v.Sign(proof.OrderID, proof.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(proof.Signature)) {
		return apperrors.PaymentVerificationFailed("payment signature mismatch")
	}
	return nil
}
