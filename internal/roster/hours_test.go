package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftHours(t *testing.T) {
	tests := []struct {
		start, end string
		want       float64
		ok         bool
	}{
		{"08:00", "15:00", 7, true},
		{"22:00", "06:00", 8, true},
		{"08:00", "08:00", 24, true},
		{"8.30", "14.45", 6.25, true},
		{"25:00", "06:00", 0, false},
		{"08:61", "09:00", 0, false},
		{"", "09:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			got, ok := ShiftHours(tt.start, tt.end)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestNocturnalHours(t *testing.T) {
	tests := []struct {
		start, end string
		want       float64
	}{
		{"08:00", "15:00", 0},
		{"22:00", "06:00", 8},
		{"20:00", "08:00", 8},
		{"04:00", "12:00", 2},
		{"08:00", "08:00", 8},
		{"bad", "08:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			assert.InDelta(t, tt.want, NocturnalHours(tt.start, tt.end), 0.001)
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	got, ok := NormalizeClock("8.05")
	assert.True(t, ok)
	assert.Equal(t, "08:05", got)

	_, ok = NormalizeClock("805")
	assert.False(t, ok)
}
