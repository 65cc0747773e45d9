package valueobject

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
	PLN Currency = "PLN"
	RUB Currency = "RUB"
	CNY Currency = "CNY"
)

// DefaultCurrency is applied when a document or product omits one
const DefaultCurrency = EUR

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ParseCurrency normalizes a currency code. Empty input yields DefaultCurrency.
func ParseCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, true
	}
	if !currencyPattern.MatchString(code) {
		return "", false
	}
	return Currency(code), true
}

// String returns the ISO code
func (c Currency) String() string {
	return string(c)
}

// RoundMoney rounds an amount to cents using banker's rounding
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// SumMoney adds amounts and rounds the result to cents
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	return RoundMoney(decimal.Sum(decimal.Zero, amounts...))
}
