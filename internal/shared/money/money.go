// Package money converts amounts between decimal major units and the minor
// units of their ISO 4217 currency.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const defaultScale = 2

// Parse resolves an ISO 4217 code, case insensitive.
func Parse(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency must be an ISO 4217 code, got %q", code)
	}
	return unit, nil
}

// Scale is the number of decimal places of code, e.g. 2 for EUR and 0 for
// JPY. Unknown codes use 2.
func Scale(code string) int32 {
	unit, err := Parse(code)
	if err != nil {
		return defaultScale
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// Round rounds amount to the decimal places of code.
func Round(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Round(Scale(code))
}

// MinorUnits is amount in the smallest unit of code: cents for EUR, yen for
// JPY.
func MinorUnits(amount decimal.Decimal, code string) int64 {
	return amount.Shift(Scale(code)).Round(0).IntPart()
}
