package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/a3tai/roster-audit/internal/pdf/extraction"
	"github.com/a3tai/roster-audit/internal/textnorm"
)

// monthPrefixes are matched against the folded first cell of a row. Every
// full Spanish month name starts with its abbreviation.
var monthPrefixes = []struct {
	prefix string
	month  time.Month
}{
	{"ENE", time.January},
	{"FEB", time.February},
	{"MAR", time.March},
	{"ABR", time.April},
	{"MAY", time.May},
	{"JUN", time.June},
	{"JUL", time.July},
	{"AGO", time.August},
	{"SEP", time.September},
	{"SET", time.September},
	{"OCT", time.October},
	{"NOV", time.November},
	{"DIC", time.December},
}

// MonthOf returns the month a row label names, if any.
func MonthOf(label string) (time.Month, bool) {
	folded := textnorm.Fold(strings.TrimSpace(label))
	for _, m := range monthPrefixes {
		if strings.HasPrefix(folded, m.prefix) {
			return m.month, true
		}
	}
	return 0, false
}

// Walker turns month rows of roster tables into day records.
type Walker struct {
	Year       int
	Classifier *Classifier
}

// NewWalker returns a walker for year.
func NewWalker(year int) *Walker {
	year = ResolveYear(year)
	return &Walker{Year: year, Classifier: NewClassifier(year)}
}

// Walk classifies every day cell of every month row. It returns the records in
// table order together with the placeholder entries for codes the legend does
// not know yet; legend itself is left untouched.
func (w *Walker) Walk(tables []extraction.Table, legend Legend, holidays HolidaySet) ([]DayRecord, Legend) {
	var records []DayRecord
	additions := make(Legend)

	lookup := func(code string) (LegendEntry, bool) {
		if e, ok := legend[code]; ok {
			return e, true
		}
		e, ok := additions[code]
		return e, ok
	}

	for _, table := range tables {
		for _, row := range table.Rows {
			if len(row.Cells) < 2 {
				continue
			}
			month, ok := MonthOf(row.Cells[0].Text)
			if !ok {
				continue
			}
			days := DaysIn(w.Year, month)

			for day := 1; day < len(row.Cells) && day <= days; day++ {
				c := w.Classifier.Classify(row.Cells[day].Text)
				if c.Empty() {
					continue
				}
				code := c.Code()

				entry, known := lookup(code)
				if !known {
					entry = placeholder(c, lookup)
					additions[code] = entry
				}

				d := date(w.Year, month, day)
				record := DayRecord{
					Date:       d,
					Code:       code,
					DayType:    DayOrdinary,
					IsVacation: c.Vacation,
				}
				if !c.Vacation {
					record.HoursTotal = entry.Hours
					record.HoursNocturnal = entry.NocturnalHours
				}
				if holidays.Contains(d) {
					record.DayType = DayHoliday
				}
				records = append(records, record)
			}
		}
	}

	return records, additions
}

// placeholder builds the legend entry for a code seen only in the grid. A
// composite code inherits its primary's schedule; anything else defers to the
// manual vocabulary or stays Unknown for review.
func placeholder(c Classification, lookup func(string) (LegendEntry, bool)) LegendEntry {
	code := c.Code()

	if c.Vacation {
		entry, _ := ManualEntry(VacationCode)
		entry.Code = code
		entry.Source = SourcePlaceholder
		return entry
	}

	entry := LegendEntry{
		Code:        code,
		Kind:        KindUnknown,
		Description: fmt.Sprintf("Turno %s", c.Primary),
		Source:      SourcePlaceholder,
	}

	if primary, ok := lookup(c.Primary); ok && c.Secondary != "" {
		entry.Kind = primary.Kind
		entry.Start = primary.Start
		entry.End = primary.End
		entry.Hours = primary.Hours
		entry.NocturnalHours = primary.NocturnalHours
		entry.Description = primary.Description
	} else if manual, ok := ManualEntry(c.Primary); ok {
		entry.Kind = manual.Kind
		entry.Description = manual.Description
	}

	if c.Secondary != "" {
		if manual, ok := ManualEntry(c.Secondary); ok {
			entry.Description = fmt.Sprintf("%s + %s", entry.Description, manual.Description)
		}
	}
	return entry
}
