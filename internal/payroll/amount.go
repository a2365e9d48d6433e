package payroll

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// 1.234,56 or 1234,56
	europeanAmount = regexp.MustCompile(`\b\d+(?:\.\d{3})*,\d{2}\b`)
	// 1,234.56 or 1234.56
	usAmount = regexp.MustCompile(`\b\d+(?:,\d{3})*\.\d{2}\b`)
)

type amountMatch struct {
	start, end int
	value      decimal.Decimal
}

// ExtractAmount returns the rightmost well-formed monetary amount in line.
// Payslip lines list rate and quantity before the total, so the last amount is
// the authoritative one. A line without an amount yields zero.
func ExtractAmount(line string) decimal.Decimal {
	var best *amountMatch

	consider := func(re *regexp.Regexp, canonical func(string) string) {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			value, err := decimal.NewFromString(canonical(line[loc[0]:loc[1]]))
			if err != nil {
				continue
			}
			m := &amountMatch{start: loc[0], end: loc[1], value: value}
			if best == nil || m.end > best.end || (m.end == best.end && m.start < best.start) {
				best = m
			}
		}
	}

	consider(europeanAmount, func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	})
	consider(usAmount, func(s string) string {
		return strings.ReplaceAll(s, ",", "")
	})

	if best == nil {
		return decimal.Zero
	}
	return best.value
}

// ExtractAmountFloat is ExtractAmount for callers working in float64.
func ExtractAmountFloat(line string) float64 {
	return ExtractAmount(line).InexactFloat64()
}
