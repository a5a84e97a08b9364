package document

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/noah-isme/backend-billing/internal/common"
	"github.com/noah-isme/backend-billing/internal/pricing"
)

const whatsappBase = "https://wa.me/"

// Message builds the thank-you text sent to the customer.
func Message(b pricing.Bill, l Layout) string {
	return fmt.Sprintf("Hello %s, thank you for shopping with %s!\nYour total bill is %s%s. Visit again!\nFollow us on Instagram: %s",
		b.CustomerName, l.shopName(), l.currency(), pricing.Format(b.GrandTotal), l.instagram())
}

// ShareLink returns a wa.me deep link to mobile prefilled with the bill message.
func ShareLink(b pricing.Bill, mobile string, l Layout) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, mobile)
	if digits == "" {
		return "", common.ValidationError("mobile number must contain digits", map[string]any{"field": "mobile"})
	}
	return whatsappBase + digits + "?text=" + escapeText(Message(b, l)), nil
}

// escapeText percent-encodes s with spaces as %20.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
