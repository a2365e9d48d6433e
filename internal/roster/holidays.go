package roster

import (
	"regexp"
	"strconv"
	"time"

	"github.com/a3tai/roster-audit/internal/textnorm"
)

var (
	strictHoliday = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`)
	spokenHoliday = regexp.MustCompile(`\b(\d{1,2})\s+(?:DE\s+)?([A-Z]+)(?:\s+(?:DE\s+|DEL\s+)?(\d{4}))?`)
)

var monthNames = map[string]time.Month{
	"ENERO":      time.January,
	"FEBRERO":    time.February,
	"MARZO":      time.March,
	"ABRIL":      time.April,
	"MAYO":       time.May,
	"JUNIO":      time.June,
	"JULIO":      time.July,
	"AGOSTO":     time.August,
	"SEPTIEMBRE": time.September,
	"SETIEMBRE":  time.September,
	"OCTUBRE":    time.October,
	"NOVIEMBRE":  time.November,
	"DICIEMBRE":  time.December,
}

// HolidayExtractor finds holiday dates in free text for one year.
type HolidayExtractor struct {
	Year int
	// Lenient also accepts phrases such as "6 de enero".
	Lenient bool
}

// Extract returns the holidays found in text. Dates outside the year and
// impossible dates such as 31/02 are dropped.
func (h HolidayExtractor) Extract(text string) HolidaySet {
	year := ResolveYear(h.Year)
	set := make(HolidaySet)

	for _, m := range strictHoliday.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if y != year {
			continue
		}
		if d, ok := validDate(y, time.Month(month), day); ok {
			set.Add(d)
		}
	}

	if !h.Lenient {
		return set
	}

	for _, m := range spokenHoliday.FindAllStringSubmatch(textnorm.Fold(text), -1) {
		month, ok := monthNames[m[2]]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		y := year
		if m[3] != "" {
			y, _ = strconv.Atoi(m[3])
			if y != year {
				continue
			}
		}
		if d, ok := validDate(y, month, day); ok {
			set.Add(d)
		}
	}
	return set
}

// validDate rejects dates that time.Date would silently normalise.
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := date(year, month, day)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// DaysIn returns the number of days of month in year, leap years included.
func DaysIn(year int, month time.Month) int {
	return date(year, month+1, 0).Day()
}
