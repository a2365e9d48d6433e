package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds how many payslips are read at once.
const DefaultWorkers = 4

// Aggregate is one worker's payroll profile for a year.
type Aggregate struct {
	Year int `json:"year"`
	Identity

	BaseSalary    decimal.Decimal `json:"base_salary"`
	Seniority     decimal.Decimal `json:"seniority"`
	PlusAgreement decimal.Decimal `json:"plus_agreement"`
	NocturnalPay  decimal.Decimal `json:"nocturnal_pay"`
	HolidayPay    decimal.Decimal `json:"holiday_pay"`
	PerDiem       decimal.Decimal `json:"per_diem"`

	ExtraPaid        decimal.Decimal `json:"extra_paid"`
	TheoreticalExtra decimal.Decimal `json:"theoretical_extra"`
	ExtraDebt        decimal.Decimal `json:"extra_debt"`
	IsProrated       bool            `json:"is_prorated"`

	Documents   int      `json:"documents"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Combine reconciles payslips: contractual figures take the maximum, earned
// amounts are summed and identity fields keep the last known value.
func Combine(slips []Payslip) Aggregate {
	agg := Aggregate{Year: time.Now().Year(), Identity: unknownIdentity()}

	prorated := 0
	for i, s := range slips {
		if i == 0 || s.Year > agg.Year {
			agg.Year = s.Year
		}
		agg.BaseSalary = decimal.Max(agg.BaseSalary, s.BaseSalary)
		agg.Seniority = decimal.Max(agg.Seniority, s.Seniority)
		agg.PlusAgreement = decimal.Max(agg.PlusAgreement, s.PlusAgreement)

		agg.NocturnalPay = agg.NocturnalPay.Add(s.NocturnalPay)
		agg.HolidayPay = agg.HolidayPay.Add(s.HolidayPay)
		agg.PerDiem = agg.PerDiem.Add(s.PerDiem)
		agg.ExtraPaid = agg.ExtraPaid.Add(s.ExtraPayment)

		mergeIdentity(&agg.Identity, s.Identity)
		if s.Prorated {
			prorated++
		}
	}

	agg.Documents = len(slips)
	agg.IsProrated = len(slips) > 0 && prorated*2 > len(slips)
	agg.TheoreticalExtra = agg.BaseSalary.Add(agg.Seniority).Add(agg.PlusAgreement)
	agg.ExtraDebt = decimal.Max(decimal.Zero, agg.TheoreticalExtra.Sub(agg.ExtraPaid))
	return agg
}

func mergeIdentity(dst *Identity, src Identity) {
	if src.Worker != "" && src.Worker != Unknown {
		dst.Worker = src.Worker
	}
	if src.Company != "" && src.Company != Unknown && !blacklisted(src.Company) {
		dst.Company = src.Company
	}
	if src.Category != "" && src.Category != Unknown {
		dst.Category = src.Category
	}
	if src.SeniorityDate != "" && src.SeniorityDate != Unknown {
		dst.SeniorityDate = src.SeniorityDate
	}
}

// Document is a payslip source: its text, its rows and where it came from.
type Document struct {
	Source string
	Text   string
	Rows   [][]string
}

// Loader opens a payslip source.
type Loader func(ctx context.Context, source string) (Document, error)

// AnnualAudit loads every source with at most workers in flight and combines
// the payslips in source order. A source that fails to load contributes an
// empty payslip and a diagnostic; it never aborts the others.
func (a *Analyzer) AnnualAudit(ctx context.Context, sources []string, load Loader, workers int) (Aggregate, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	slips := make([]Payslip, len(sources))
	failures := make([]string, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, source := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := load(ctx, source)
			if err != nil {
				failures[i] = fmt.Sprintf("%s: %v", source, err)
				return nil
			}
			slip := a.Analyze(doc.Text, doc.Rows)
			slip.Source = source
			slips[i] = slip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Aggregate{}, err
	}

	var (
		read  []Payslip
		diags []string
	)
	for i := range sources {
		if failures[i] != "" {
			diags = append(diags, failures[i])
			continue
		}
		read = append(read, slips[i])
	}

	agg := Combine(read)
	agg.Documents = len(sources)
	agg.Diagnostics = diags
	return agg, nil
}
