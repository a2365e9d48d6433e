package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewFixture() ([]DayRecord, Legend) {
	records := []DayRecord{
		{Date: date(2025, time.March, 1), Code: "708", HoursTotal: 7},
		{Date: date(2025, time.March, 2), Code: "999"},
		{Date: date(2025, time.March, 3), Code: "999"},
		{Date: date(2025, time.March, 4), Code: "V", IsVacation: true},
		{Date: date(2025, time.March, 5), Code: "1010"},
	}
	legend := Legend{
		"708":   {Code: "708", Kind: KindWork, Hours: 7, Source: SourceInferred},
		"999":   {Code: "999", Kind: KindUnknown, Description: "Turno 999", Source: SourcePlaceholder},
		"V ENF": {Code: "V ENF", Kind: KindVacation, Source: SourcePlaceholder},
	}
	return records, legend
}

func TestUnresolved(t *testing.T) {
	records, legend := reviewFixture()

	assert.Equal(t, []string{"1010", "999"}, Unresolved(records, legend))
	assert.False(t, Ready(records, legend))
}

func TestResolve_Work(t *testing.T) {
	records, legend := reviewFixture()

	got, updated, err := Resolve(records, legend, Resolution{Code: "999", Action: ActionWork, Start: "22:00", End: "8.00"})
	require.NoError(t, err)

	entry := updated["999"]
	assert.Equal(t, KindWork, entry.Kind)
	assert.Equal(t, SourceUser, entry.Source)
	assert.Equal(t, "08:00", entry.End)
	assert.Equal(t, 10.0, entry.Hours)
	assert.Equal(t, 8.0, entry.NocturnalHours)
	assert.Equal(t, "Turno 22:00-08:00", entry.Description)
	assert.Equal(t, 10.0, got[1].HoursTotal)
	assert.Equal(t, 10.0, got[2].HoursTotal)

	// inputs untouched
	assert.Equal(t, KindUnknown, legend["999"].Kind)
	assert.Zero(t, records[1].HoursTotal)
}

func TestResolve_WorkExplicitHours(t *testing.T) {
	records, legend := reviewFixture()

	got, updated, err := Resolve(records, legend, Resolution{Code: "1010", Action: ActionWork, Hours: 12, Description: "Guardia"})
	require.NoError(t, err)

	assert.Equal(t, "Guardia", updated["1010"].Description)
	assert.Equal(t, 12.0, got[4].HoursTotal)
	assert.Equal(t, []string{"999"}, Unresolved(got, updated))
}

func TestResolve_Absence(t *testing.T) {
	records, legend := reviewFixture()
	records[1].HoursTotal = 5

	got, updated, err := Resolve(records, legend, Resolution{Code: "999", Action: ActionAbsence})
	require.NoError(t, err)

	assert.Equal(t, KindAbsence, updated["999"].Kind)
	assert.Equal(t, "Ausencia", updated["999"].Description)
	assert.Zero(t, got[1].HoursTotal)
}

func TestResolve_Delete(t *testing.T) {
	records, legend := reviewFixture()

	got, updated, err := Resolve(records, legend, Resolution{Code: "999", Action: ActionDelete})
	require.NoError(t, err)

	assert.Len(t, got, 3)
	assert.NotContains(t, updated, "999")
	assert.Contains(t, legend, "999")
}

func TestResolve_Errors(t *testing.T) {
	records, legend := reviewFixture()

	tests := []struct {
		name string
		res  Resolution
		want error
	}{
		{"empty code", Resolution{Action: ActionWork, Hours: 7}, ErrUnknownCode},
		{"unknown code", Resolution{Code: "4242", Action: ActionWork, Hours: 7}, ErrUnknownCode},
		{"bad action", Resolution{Code: "999", Action: "promote"}, ErrInvalidAction},
		{"bad clock", Resolution{Code: "999", Action: ActionWork, Start: "25:00", End: "08:00"}, ErrInvalidHours},
		{"missing end", Resolution{Code: "999", Action: ActionWork, Start: "08:00"}, ErrInvalidHours},
		{"no hours", Resolution{Code: "999", Action: ActionWork}, ErrInvalidHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Resolve(records, legend, tt.res)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOverrideHours(t *testing.T) {
	records := []DayRecord{
		{Date: date(2025, time.May, 1), Code: "1308", HoursTotal: 10, HoursNocturnal: 8},
		{Date: date(2025, time.May, 2), Code: "708", HoursTotal: 7},
	}

	got, err := OverrideHours(records, "1308", 6)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got[0].HoursTotal)
	assert.Equal(t, 6.0, got[0].HoursNocturnal)
	assert.Equal(t, 7.0, got[1].HoursTotal)
	assert.Equal(t, 10.0, records[0].HoursTotal)

	_, err = OverrideHours(records, "1308", 30)
	assert.ErrorIs(t, err, ErrInvalidHours)

	_, err = OverrideHours(records, "4242", 5)
	assert.ErrorIs(t, err, ErrUnknownCode)
}
