package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignCallbackPayload computes the hex HMAC-SHA256 the gateway attaches to
// successful payment callbacks: HMAC(orderID + "|" + paymentID, secret).
func SignCallbackPayload(orderID, paymentID string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallbackSignature checks a callback signature in constant time.
// An empty signature is always a failed verification.
func VerifyCallbackSignature(orderID, paymentID, signature string, secret []byte) bool {
	if signature == "" {
		return false
	}
	expected := SignCallbackPayload(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
