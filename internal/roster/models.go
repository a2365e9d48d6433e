// Package roster turns roster PDFs into typed day records: it classifies cell
// codes, infers the code legend from free text, detects holidays and filters
// vacation blocks.
package roster

import (
	"sort"
	"time"
)

// DayType tags a record as an ordinary day or a public holiday.
type DayType string

const (
	DayOrdinary DayType = "ordinary"
	DayHoliday  DayType = "holiday"
)

// VacationCode is the primary code of every vacation day.
const VacationCode = "V"

// DayRecord is one calendar day of roster data.
type DayRecord struct {
	Date           time.Time `json:"date" csv:"-"`
	Code           string    `json:"code"`
	HoursTotal     float64   `json:"hours_total"`
	HoursNocturnal float64   `json:"hours_nocturnal"`
	DayType        DayType   `json:"day_type"`
	IsVacation     bool      `json:"is_vacation"`
}

// Primary returns the leading part of a composite code such as "708 ENF".
func (r DayRecord) Primary() string {
	primary, _ := SplitCode(r.Code)
	return primary
}

// Kind classifies a legend entry.
type Kind string

const (
	KindWork     Kind = "work"
	KindAbsence  Kind = "absence"
	KindVacation Kind = "vacation"
	KindUnknown  Kind = "unknown"
)

// Source records where a legend entry came from. Higher values win on merge.
type Source int

const (
	SourcePlaceholder Source = iota
	SourceInferred
	SourceManual
	SourceUser
)

func (s Source) String() string {
	switch s {
	case SourceInferred:
		return "inferred"
	case SourceManual:
		return "manual"
	case SourceUser:
		return "user"
	default:
		return "placeholder"
	}
}

// LegendEntry is the meaning of one code.
type LegendEntry struct {
	Code           string  `json:"code"`
	Kind           Kind    `json:"kind"`
	Start          string  `json:"start,omitempty"`
	End            string  `json:"end,omitempty"`
	Hours          float64 `json:"hours"`
	NocturnalHours float64 `json:"nocturnal_hours"`
	Description    string  `json:"description"`
	Source         Source  `json:"-"`
}

// HasSchedule reports whether the entry carries a start and end time.
func (e LegendEntry) HasSchedule() bool {
	return e.Start != "" && e.End != ""
}

// Legend maps canonical codes to their meaning.
type Legend map[string]LegendEntry

// Clone returns a shallow copy of the legend.
func (l Legend) Clone() Legend {
	out := make(Legend, len(l))
	for code, entry := range l {
		out[code] = entry
	}
	return out
}

// Merge returns a new legend holding l overlaid with additions. An addition
// replaces an existing entry only when its source ranks at least as high.
func (l Legend) Merge(additions Legend) Legend {
	out := l.Clone()
	for code, entry := range additions {
		existing, ok := out[code]
		if ok && existing.Source > entry.Source {
			continue
		}
		out[code] = entry
	}
	return out
}

// Codes returns the legend's codes in sorted order.
func (l Legend) Codes() []string {
	codes := make([]string, 0, len(l))
	for code := range l {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// HolidaySet is a year-scoped set of holiday dates.
type HolidaySet map[time.Time]struct{}

// NewHolidaySet builds a set from dates, truncating them to midnight UTC.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	return set
}

// Add inserts a date.
func (h HolidaySet) Add(d time.Time) {
	h[dateOnly(d)] = struct{}{}
}

// Contains reports whether d is a holiday.
func (h HolidaySet) Contains(d time.Time) bool {
	_, ok := h[dateOnly(d)]
	return ok
}

// Sorted returns the holidays in chronological order.
func (h HolidaySet) Sorted() []time.Time {
	out := make([]time.Time, 0, len(h))
	for d := range h {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// VacationPeriod is a contiguous run of vacation days, both ends inclusive.
type VacationPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the period length in days.
func (p VacationPeriod) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Result is the parsed content of one roster document.
type Result struct {
	Year        int         `json:"year"`
	Records     []DayRecord `json:"records"`
	Legend      Legend      `json:"legend"`
	Holidays    HolidaySet  `json:"-"`
	Diagnostics []string    `json:"diagnostics,omitempty"`
}

func dateOnly(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
