package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCombine_FixedAndVariable(t *testing.T) {
	slips := []Payslip{
		{Year: 2025, Identity: Identity{Worker: "ANA", Company: Unknown, Category: "TES", SeniorityDate: Unknown},
			BaseSalary: dec("1200.00"), NocturnalPay: dec("30.00")},
		{Year: 2025, Identity: Identity{Worker: Unknown, Company: "AMBULANCIAS SUR", Category: Unknown, SeniorityDate: "01/03/2015"},
			BaseSalary: dec("1250.00"), NocturnalPay: dec("45.00")},
	}

	agg := Combine(slips)

	assert.True(t, agg.BaseSalary.Equal(dec("1250.00")), "base salary takes the maximum")
	assert.True(t, agg.NocturnalPay.Equal(dec("75.00")), "nocturnal pay is summed")
	assert.Equal(t, "ANA", agg.Worker)
	assert.Equal(t, "AMBULANCIAS SUR", agg.Company)
	assert.Equal(t, "TES", agg.Category)
	assert.Equal(t, "01/03/2015", agg.SeniorityDate)
	assert.Equal(t, 2, agg.Documents)
	assert.Equal(t, 2025, agg.Year)
}

func TestCombine_ExtraPayment(t *testing.T) {
	slips := []Payslip{
		{Year: 2025, BaseSalary: dec("1000"), Seniority: dec("50"), PlusAgreement: dec("150"), ExtraPayment: dec("100"), Prorated: true},
		{Year: 2025, BaseSalary: dec("1000"), ExtraPayment: dec("100"), Prorated: true},
		{Year: 2025, BaseSalary: dec("1000")},
	}

	agg := Combine(slips)

	assert.True(t, agg.TheoreticalExtra.Equal(dec("1200")))
	assert.True(t, agg.ExtraPaid.Equal(dec("200")))
	assert.True(t, agg.ExtraDebt.Equal(dec("1000")))
	assert.True(t, agg.IsProrated)

	slips[0].ExtraPayment = dec("5000")
	agg = Combine(slips)
	assert.True(t, agg.ExtraDebt.IsZero())
}

func TestCombine_Empty(t *testing.T) {
	agg := Combine(nil)

	assert.Equal(t, Unknown, agg.Worker)
	assert.Equal(t, Unknown, agg.Company)
	assert.False(t, agg.IsProrated)
	assert.True(t, agg.BaseSalary.IsZero())
}

func TestCombine_CompanyBlacklistedIgnored(t *testing.T) {
	agg := Combine([]Payslip{
		{Identity: Identity{Company: "AMBULANCIAS SUR"}},
		{Identity: Identity{Company: "PRECIO"}},
	})
	assert.Equal(t, "AMBULANCIAS SUR", agg.Company)
}

func TestAnalyzer_AnnualAudit(t *testing.T) {
	docs := map[string]string{
		"enero.pdf":   "NOMINA ENERO 2025\nSALARIO BASE 1.200,00\nNOCTURNIDAD 30,00",
		"febrero.pdf": "NOMINA FEBRERO 2025\nSALARIO BASE 1.250,00\nNOCTURNIDAD 45,00",
	}
	load := func(_ context.Context, source string) (Document, error) {
		text, ok := docs[source]
		if !ok {
			return Document{}, errors.New("no text layer")
		}
		return Document{Source: source, Text: text}, nil
	}

	agg, err := NewAnalyzer().AnnualAudit(context.Background(), []string{"enero.pdf", "roto.pdf", "febrero.pdf"}, load, 2)
	require.NoError(t, err)

	assert.True(t, agg.BaseSalary.Equal(dec("1250")))
	assert.True(t, agg.NocturnalPay.Equal(dec("75")))
	assert.Equal(t, 3, agg.Documents)
	require.Len(t, agg.Diagnostics, 1)
	assert.Contains(t, agg.Diagnostics[0], "roto.pdf")
	assert.Equal(t, 2025, agg.Year)
}

func TestAnalyzer_AnnualAuditCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	load := func(context.Context, string) (Document, error) { return Document{}, nil }
	_, err := NewAnalyzer().AnnualAudit(ctx, []string{"a.pdf"}, load, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
