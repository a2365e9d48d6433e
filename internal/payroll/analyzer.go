// Package payroll reads payslip text into categorized salary concepts and
// reconciles a year of payslips into one profile.
package payroll

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/a3tai/roster-audit/internal/textnorm"
)

var (
	payslipYear = regexp.MustCompile(`\b(20\d{2})\b`)
	// periodYear is a year printed next to the payslip month or period, as in
	// "ENERO 2025", "MES: MARZO DE 2025" or "PERIODO 01/03/2025".
	periodYear = regexp.MustCompile(`\b(?:ENERO|FEBRERO|MARZO|ABRIL|MAYO|JUNIO|JULIO|AGOSTO|SEPTIEMBRE|SETIEMBRE|OCTUBRE|NOVIEMBRE|DICIEMBRE|PERIODO|MES)\b[^0-9\n]{0,12}(?:\d{1,2}[/.-]\d{1,2}[/.-])?(20\d{2})\b`)
)

// prorationShare is the largest extra payment, as a share of base salary,
// still read as a monthly prorated portion.
var prorationShare = decimal.RequireFromString("0.35")

// Payslip is the content of one payslip document.
type Payslip struct {
	Source string `json:"source"`
	Year   int    `json:"year"`
	Identity

	BaseSalary    decimal.Decimal `json:"base_salary"`
	Seniority     decimal.Decimal `json:"seniority"`
	PlusAgreement decimal.Decimal `json:"plus_agreement"`
	NocturnalPay  decimal.Decimal `json:"nocturnal_pay"`
	HolidayPay    decimal.Decimal `json:"holiday_pay"`
	PerDiem       decimal.Decimal `json:"per_diem"`
	ExtraPayment  decimal.Decimal `json:"extra_payment"`

	// Prorated is set when the extra payment is spread over the monthly
	// payslips instead of paid as a lump sum.
	Prorated bool `json:"prorated"`
}

// Monthly returns base salary plus seniority plus agreement plus.
func (p Payslip) Monthly() decimal.Decimal {
	return p.BaseSalary.Add(p.Seniority).Add(p.PlusAgreement)
}

// Analyzer extracts payslips from document text.
type Analyzer struct {
	matcher *Matcher
}

// NewAnalyzer returns an analyzer. It is safe for concurrent use.
func NewAnalyzer() *Analyzer {
	return &Analyzer{matcher: NewMatcher()}
}

// yearOf finds the year a payslip belongs to. A year beside the month or
// period wins; otherwise the latest year in the text, since earlier ones are
// usually hiring or seniority dates.
func yearOf(text string) (int, bool) {
	folded := textnorm.Fold(text)
	if m := periodYear.FindStringSubmatch(folded); m != nil {
		year, err := strconv.Atoi(m[1])
		return year, err == nil
	}
	latest := 0
	for _, m := range payslipYear.FindAllStringSubmatch(folded, -1) {
		if year, err := strconv.Atoi(m[1]); err == nil && year > latest {
			latest = year
		}
	}
	return latest, latest != 0
}

// Analyze reads one payslip. rows are the document lines split into cells and
// may be nil. Lines without a recognised concept or amount are ignored.
func (a *Analyzer) Analyze(text string, rows [][]string) Payslip {
	lines := nonEmptyLines(text)

	slip := Payslip{
		Year:     time.Now().Year(),
		Identity: extractIdentity(rows, lines),
	}
	if year, ok := yearOf(text); ok {
		slip.Year = year
	}

	marker := false
	for _, line := range lines {
		match := a.matcher.Match(textnorm.Fold(line))
		if match.Prorated {
			marker = true
		}
		if match.Skip || match.Concept == ConceptNone {
			continue
		}
		amount := ExtractAmount(line)
		if amount.IsZero() {
			continue
		}
		slip.add(match.Concept, amount)
	}

	slip.Prorated = marker || slip.looksProrated()
	return slip
}

func (p *Payslip) add(c Concept, amount decimal.Decimal) {
	switch c {
	case ConceptExtraPayment:
		p.ExtraPayment = p.ExtraPayment.Add(amount)
	case ConceptBaseSalary:
		p.BaseSalary = amount
	case ConceptSeniority:
		p.Seniority = amount
	case ConceptPlusAgreement:
		p.PlusAgreement = amount
	case ConceptNocturnal:
		p.NocturnalPay = p.NocturnalPay.Add(amount)
	case ConceptHoliday:
		p.HolidayPay = p.HolidayPay.Add(amount)
	case ConceptPerDiem:
		p.PerDiem = p.PerDiem.Add(amount)
	}
}

func (p Payslip) looksProrated() bool {
	if !p.ExtraPayment.IsPositive() || !p.BaseSalary.IsPositive() {
		return false
	}
	return p.ExtraPayment.LessThanOrEqual(p.BaseSalary.Mul(prorationShare))
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
