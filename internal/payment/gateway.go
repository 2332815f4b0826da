package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway creates payment intents at Razorpay and verifies its payment
// confirmations. The key secret never leaves this package.
type Gateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func New(keyID, keySecret string) *Gateway {
	return &Gateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// KeyID returns the public key identifier the client needs to complete the
// payment.
func (g *Gateway) KeyID() string {
	return g.keyID
}

// CreateIntent opens a gateway-side order for the given amount in minor
// currency units and returns its identifier.
func (g *Gateway) CreateIntent(amountMinor int64, currency, receipt string) (string, error) {
	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":          amountMinor,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return "", err
	}
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", errors.New("gateway response missing order id")
	}
	return id, nil
}

// VerifySignature recomputes the HMAC-SHA256 of "<orderID>|<paymentID>" with
// the key secret and compares it in constant time against the signature the
// client relayed from the gateway.
func (g *Gateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
