// Package document renders computed bills for sharing: a printable PDF and a
// prefilled WhatsApp message link.
package document

import "strings"

// Layout carries the shop identity printed on every document.
type Layout struct {
	ShopName       string
	Instagram      string
	CurrencySymbol string
}

func (l Layout) shopName() string {
	if strings.TrimSpace(l.ShopName) == "" {
		return "URBAN CLYNE"
	}
	return strings.TrimSpace(l.ShopName)
}

func (l Layout) instagram() string {
	h := strings.TrimPrefix(strings.TrimSpace(l.Instagram), "@")
	if h == "" {
		return "urban_clyne"
	}
	return h
}

func (l Layout) currency() string {
	if l.CurrencySymbol == "" {
		return "₹"
	}
	return l.CurrencySymbol
}
