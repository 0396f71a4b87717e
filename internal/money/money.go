// Package money computes invoice amounts in integer minor currency units
// (cents). Quantities may be fractional, so each line total is rounded
// half-up before summing; the discount is applied to the exact subtotal and
// rounded once at the end, so rounding error never compounds.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Line is the money-relevant slice of a line item: a possibly fractional
// quantity and a unit price in minor currency units.
type Line struct {
	Quantity float64
	Amount   int64
}

var hundred = decimal.NewFromInt(100)

// LineTotal returns quantity * amount rounded half-up to the nearest minor
// unit.
func LineTotal(quantity float64, amount int64) int64 {
	return decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromInt(amount)).
		Round(0).
		IntPart()
}

// Subtotal sums the per-line totals. An empty or nil set is 0.
func Subtotal(ls []Line) int64 {
	var sum int64
	for _, l := range ls {
		sum += LineTotal(l.Quantity, l.Amount)
	}
	return sum
}

// Total applies a percentage discount to the subtotal. The discount is
// clamped to [0,100] and the result rounded half-up once.
func Total(discount float64, ls []Line) int64 {
	if discount < 0 {
		discount = 0
	}
	if discount > 100 {
		discount = 100
	}
	sub := decimal.NewFromInt(Subtotal(ls))
	return sub.
		Mul(hundred.Sub(decimal.NewFromFloat(discount))).
		Div(hundred).
		Round(0).
		IntPart()
}

var printer = message.NewPrinter(language.AmericanEnglish)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Format renders minor units as a grouped currency string, e.g.
// Format(500000, "USD") == "$5,000.00". Unknown codes fall back to the code
// itself as prefix. Output is deterministic for a given input.
func Format(cents int64, code string) string {
	code = strings.ToUpper(code)
	sym, ok := symbols[code]
	if !ok {
		sym = code + " "
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + sym + printer.Sprintf("%.2f", float64(cents)/100)
}
