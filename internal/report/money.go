package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency every amount in a report is expressed in.
const Currency = money.EUR

// rateFraction is the number of decimals an hourly rate is shown with.
const rateFraction = 4

// spanishFormatter renders amounts as "1.234,56 €".
func spanishFormatter(fraction int) *money.Formatter {
	grapheme := "€"
	if c := money.GetCurrency(Currency); c != nil {
		grapheme = c.Grapheme
	}
	return money.NewFormatter(fraction, ",", ".", grapheme, "1 $")
}

func currencyFraction() int {
	if c := money.GetCurrency(Currency); c != nil {
		return c.Fraction
	}
	return 2
}

// FormatAmount renders a decimal amount in the report currency, rounded to
// the currency's minor unit.
func FormatAmount(amount decimal.Decimal) string {
	fraction := currencyFraction()
	minor := amount.Shift(int32(fraction)).Round(0).IntPart()
	return spanishFormatter(fraction).Format(minor)
}

// FormatRate renders an hourly rate with four decimals in the same style as
// FormatAmount.
func FormatRate(rate decimal.Decimal) string {
	units := rate.Shift(rateFraction).Round(0).IntPart()
	return spanishFormatter(rateFraction).Format(units)
}
