// Package settlement prices a reviewed roster: rest-debt hours per worked day,
// their amount at the ordinary hourly rate and the extra-payment claim.
package settlement

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/a3tai/roster-audit/internal/payroll"
)

// Pricing keys recognised in a loose configuration map.
const (
	KeyHourlyRate           = "hourly_rate"
	KeyBaseSalary           = "base_salary"
	KeySeniority            = "seniority"
	KeyPlusAgreement        = "plus_agreement"
	KeyExtraPaymentIncluded = "extra_payment_included"
	KeyExtraPaymentAmount   = "extra_payment_amount"
	KeyAuditedNocturnal     = "audited_nocturnal"
	KeyAuditedHoliday       = "audited_holiday"
	KeyAuditedPerDiem       = "audited_per_diem"
	KeyCategory             = "category"
)

const (
	// monthly salary is paid 15 times a year over 1776 working hours
	paymentsPerYear = 15
	annualHours     = 1776
)

// Pricing is the set of rates and audited totals a settlement is priced with.
type Pricing struct {
	HourlyRate           decimal.Decimal `json:"hourly_rate"`
	BaseSalary           decimal.Decimal `json:"base_salary"`
	Seniority            decimal.Decimal `json:"seniority"`
	PlusAgreement        decimal.Decimal `json:"plus_agreement"`
	ExtraPaymentIncluded bool            `json:"extra_payment_included"`
	ExtraPaymentAmount   decimal.Decimal `json:"extra_payment_amount"`
	AuditedNocturnal     decimal.Decimal `json:"audited_nocturnal"`
	AuditedHoliday       decimal.Decimal `json:"audited_holiday"`
	AuditedPerDiem       decimal.Decimal `json:"audited_per_diem"`
	Category             string          `json:"category"`
}

// PricingFromAggregate seeds pricing from a payroll audit. The extra payment
// is claimed only when it was not prorated into the monthly payslips.
func PricingFromAggregate(agg payroll.Aggregate) Pricing {
	return Pricing{
		BaseSalary:           agg.BaseSalary,
		Seniority:            agg.Seniority,
		PlusAgreement:        agg.PlusAgreement,
		ExtraPaymentIncluded: !agg.IsProrated,
		ExtraPaymentAmount:   agg.ExtraDebt,
		AuditedNocturnal:     agg.NocturnalPay,
		AuditedHoliday:       agg.HolidayPay,
		AuditedPerDiem:       agg.PerDiem,
		Category:             agg.Category,
	}
}

// PricingFromMap reads recognised keys from values. Unknown keys are ignored
// and missing ones stay zero.
func PricingFromMap(values map[string]any) Pricing {
	return Pricing{}.Overlay(values)
}

// Overlay returns p with every recognised key in values applied. Keys are
// matched case-insensitively; values that do not convert are skipped.
func (p Pricing) Overlay(values map[string]any) Pricing {
	for key, raw := range values {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case KeyHourlyRate:
			setDecimal(&p.HourlyRate, raw)
		case KeyBaseSalary:
			setDecimal(&p.BaseSalary, raw)
		case KeySeniority:
			setDecimal(&p.Seniority, raw)
		case KeyPlusAgreement:
			setDecimal(&p.PlusAgreement, raw)
		case KeyExtraPaymentIncluded:
			if v, err := cast.ToBoolE(raw); err == nil {
				p.ExtraPaymentIncluded = v
			}
		case KeyExtraPaymentAmount:
			setDecimal(&p.ExtraPaymentAmount, raw)
		case KeyAuditedNocturnal:
			setDecimal(&p.AuditedNocturnal, raw)
		case KeyAuditedHoliday:
			setDecimal(&p.AuditedHoliday, raw)
		case KeyAuditedPerDiem:
			setDecimal(&p.AuditedPerDiem, raw)
		case KeyCategory:
			if v, err := cast.ToStringE(raw); err == nil {
				p.Category = strings.TrimSpace(v)
			}
		}
	}
	return p
}

func setDecimal(dst *decimal.Decimal, raw any) {
	if d, ok := toDecimal(raw); ok {
		*dst = d
	}
}

// toDecimal accepts numbers, numeric strings and payslip-style amounts such
// as "1.234,56".
func toDecimal(raw any) (decimal.Decimal, bool) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if d, err := decimal.NewFromString(s); err == nil {
			return d, true
		}
		if d := payroll.ExtractAmount(s); !d.IsZero() {
			return d, true
		}
		return decimal.Zero, false
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// MonthlyFixed is base salary plus seniority plus agreement plus.
func (p Pricing) MonthlyFixed() decimal.Decimal {
	return p.BaseSalary.Add(p.Seniority).Add(p.PlusAgreement)
}

// FormulaRate is the ordinary hourly rate from the fixed monthly concepts.
func (p Pricing) FormulaRate() decimal.Decimal {
	return p.MonthlyFixed().Mul(decimal.NewFromInt(paymentsPerYear)).Div(decimal.NewFromInt(annualHours))
}

// Rate returns the explicit hourly rate if one was set, the formula rate
// otherwise.
func (p Pricing) Rate() decimal.Decimal {
	if p.HourlyRate.IsPositive() {
		return p.HourlyRate
	}
	return p.FormulaRate()
}
