package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHolidayExtractor_Strict(t *testing.T) {
	text := "Festivos: 25/12/2025, 01/01/2025 y 06/01/2026. Erróneo: 31/02/2025"

	set := HolidayExtractor{Year: 2025}.Extract(text)

	assert.Len(t, set, 2)
	assert.True(t, set.Contains(date(2025, time.December, 25)))
	assert.True(t, set.Contains(date(2025, time.January, 1)))
	assert.False(t, set.Contains(date(2026, time.January, 6)))
}

func TestHolidayExtractor_OtherYear(t *testing.T) {
	set := HolidayExtractor{Year: 2024}.Extract("25/12/2025")
	assert.Empty(t, set)
}

func TestHolidayExtractor_Lenient(t *testing.T) {
	text := "Festivos locales: 6 de enero, 19 de Marzo de 2025 y 15 agosto 2024"

	strict := HolidayExtractor{Year: 2025}.Extract(text)
	assert.Empty(t, strict)

	lenient := HolidayExtractor{Year: 2025, Lenient: true}.Extract(text)
	assert.Equal(t, []time.Time{
		date(2025, time.January, 6),
		date(2025, time.March, 19),
	}, lenient.Sorted())
}

func TestHolidayExtractor_LenientRejectsImpossible(t *testing.T) {
	set := HolidayExtractor{Year: 2025, Lenient: true}.Extract("30 de febrero")
	assert.Empty(t, set)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2025, time.February))
	assert.Equal(t, 31, DaysIn(2025, time.December))
	assert.Equal(t, 30, DaysIn(2025, time.April))
}
