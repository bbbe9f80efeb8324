package i18n

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// FormatPrice renders an amount in minor units with the currency symbol for tag,
// e.g. "$ 12.50" or "¥ 1200". The number of decimals follows the currency.
// Codes that are not ISO 4217 are printed with two decimals after the raw code.
func FormatPrice(tag language.Tag, minor uint64, code string) string {
	p := Printer(tag)

	unit, err := currency.ParseISO(code)
	if err != nil {
		amount := p.Sprintf("%d.%02d", minor/100, minor%100)
		if code == "" {
			return amount
		}
		return amount + " " + code
	}

	scale, _ := currency.Standard.Rounding(unit)
	value := float64(minor) / math.Pow10(scale)
	return p.Sprint(currency.Symbol(unit.Amount(value)))
}
