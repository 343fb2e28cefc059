package models

import "github.com/shopspring/decimal"

// CurrencySuffix is appended to every formatted amount.
const CurrencySuffix = "€"

// FormatCents renders an amount in minor units with two decimals and the currency suffix.
// Example: 12345 -> "123.45 €".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2) + " " + CurrencySuffix
}
