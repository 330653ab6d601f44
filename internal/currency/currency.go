package currency

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Currency is one of the display currencies the app supports.
type Currency string

const (
	SEK Currency = "SEK"
	USD Currency = "USD"
	EUR Currency = "EUR"
	JPY Currency = "JPY"
)

// Rates are static exchange rates relative to SEK, the currency all raw
// price data is authored in.
var Rates = map[Currency]decimal.Decimal{
	SEK: decimal.NewFromInt(1),
	USD: decimal.RequireFromString("0.091"),
	EUR: decimal.RequireFromString("0.084"),
	JPY: decimal.RequireFromString("14.5"),
}

// Symbols used when formatting converted amounts.
var Symbols = map[Currency]string{
	SEK: "kr",
	USD: "$",
	EUR: "€",
	JPY: "¥",
}

var rangePattern = regexp.MustCompile(`(\d+)(?:-(\d+))?\s*kr`)

// Valid reports whether c is a supported currency code.
func Valid(c Currency) bool {
	_, ok := Rates[c]
	return ok
}

// SEK and EUR place the symbol after the amount with a space, USD and JPY
// immediately before it with no space.
func symbolAfter(c Currency) bool {
	return c == SEK || c == EUR
}

func withSymbol(amount string, c Currency) string {
	if symbolAfter(c) {
		return amount + " " + Symbols[c]
	}
	return Symbols[c] + amount
}

func converted(v decimal.Decimal, c Currency) string {
	return v.Mul(Rates[c]).Round(0).String()
}

// ConvertValue converts a numeric SEK amount into a display string in the
// target currency, e.g. ConvertValue(100, USD) -> "$9".
func ConvertValue(priceInSEK float64, c Currency) string {
	return withSymbol(converted(decimal.NewFromFloat(priceInSEK), c), c)
}

// ConvertPriceRange converts a SEK price or price range in text form
// (e.g. "1200-1500 kr" or "1200 kr") into the target currency. Input that
// does not match the expected pattern is returned unchanged.
func ConvertPriceRange(rangeText string, c Currency) string {
	m := rangePattern.FindStringSubmatch(rangeText)
	if m == nil {
		return rangeText
	}

	min, err := decimal.NewFromString(m[1])
	if err != nil {
		return rangeText
	}
	if m[2] == "" {
		return withSymbol(converted(min, c), c)
	}

	max, err := decimal.NewFromString(m[2])
	if err != nil {
		return rangeText
	}
	return withSymbol(converted(min, c)+"-"+converted(max, c), c)
}
