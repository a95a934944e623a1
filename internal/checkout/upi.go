package checkout

import (
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// BuildUPILink construit le deep-link upi://pay scannable par les applications
// de paiement (GPay, PhonePe, Paytm...). Montant toujours en INR.
func BuildUPILink(payeeVPA, payeeName string, amount float64, note string) string {
	q := url.Values{}
	q.Set("pa", payeeVPA)
	q.Set("pn", payeeName)
	q.Set("am", fmt.Sprintf("%.2f", amount))
	q.Set("cu", "INR")
	if note != "" {
		q.Set("tn", note)
	}
	return "upi://pay?" + q.Encode()
}

// GenerateUPIQR encode le deep-link UPI en QR PNG base64 prêt à mettre dans
// un <img src="...">
func GenerateUPIQR(upiLink string) (string, error) {
	png, err := qrcode.Encode(upiLink, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
