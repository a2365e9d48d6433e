package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name string
		line string
		want float64
	}{
		{"european thousands", "1.234,56", 1234.56},
		{"us plain", "1234.56", 1234.56},
		{"us thousands", "1,234.56", 1234.56},
		{"european plain", "SALARIO BASE 30,00 1253,26", 1253.26},
		{"last amount wins", "NOCTURNIDAD 12,50 3,00 37,50", 37.50},
		{"large european", "TOTAL 12.345.678,90", 12345678.90},
		{"no amount", "CONCEPTO IMPORTE", 0},
		{"integer only", "DIAS 30", 0},
		{"one fraction digit", "PLUS 12,5", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ExtractAmountFloat(tt.line), 0.0001)
		})
	}
}

func TestExtractAmount_Exact(t *testing.T) {
	assert.Equal(t, "1234.56", ExtractAmount("1.234,56").StringFixed(2))
	assert.True(t, ExtractAmount("sin importe").IsZero())
}
