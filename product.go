package main

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductInfo is the result of one extraction. It lives for a single request.
type ProductInfo struct {
	URL       string
	Name      string
	Price     Price
	ImageURLs []string
	Sizes     []string
}

// Price keeps the text shown on the page alongside its parsed amount, if any.
type Price struct {
	Raw      string
	Amount   decimal.Decimal
	Currency string
	Parsed   bool
}

func (p Price) String() string {
	if !p.Parsed {
		return p.Raw
	}
	amount := p.Amount.StringFixed(2)
	if p.Currency == "" {
		return amount
	}
	return p.Currency + " " + amount
}

// IsZero reports whether no price text was found.
func (p Price) IsZero() bool {
	return strings.TrimSpace(p.Raw) == ""
}

var (
	priceAmountPattern   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	priceCurrencyPattern = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

// parsePrice reads strings such as "AED 99.00", "1,249 SAR" or "99.00".
// Unparseable input is kept as Raw with Parsed unset.
func parsePrice(raw string) Price {
	raw = strings.Join(strings.Fields(raw), " ")
	p := Price{Raw: raw}

	amount := priceAmountPattern.FindString(raw)
	if amount == "" {
		return p
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(amount, ",", ""))
	if err != nil {
		return p
	}
	p.Amount = d
	p.Currency = priceCurrencyPattern.FindString(raw)
	p.Parsed = true
	return p
}
