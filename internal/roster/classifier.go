package roster

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	shiftNumber = regexp.MustCompile(`^\d{3,4}$`)
	nonCodeChar = regexp.MustCompile(`[^A-Z0-9]`)
)

// garbageTokens are OCR leftovers and filler words that never carry a code.
var garbageTokens = map[string]bool{
	"NORM": true,
	"[+]":  true,
	"[]":   true,
	"DIA":  true,
	"DE":   true,
	"LA":   true,
	"EL":   true,
}

var vacationMarkers = map[string]bool{
	"V":   true,
	"VAC": true,
}

// absenceAcronyms maps every recognised spelling to its canonical acronym.
var absenceAcronyms = map[string]string{
	"ENF":   "ENF",
	"MTRI":  "MTRI",
	"MTRL":  "MTRI",
	"DLD":   "DLD",
	"LD":    "DLD",
	"BAJA":  "BAJA",
	"IT":    "IT",
	"AP":    "AP",
	"LIBRE": "LIBRE",
	"PATER": "PATER",
	"MATER": "MATER",
	"ALTA":  "ALTA",
}

// Classification is the outcome of reading one roster cell.
type Classification struct {
	Primary   string
	Secondary string
	Vacation  bool
}

// Empty reports whether the cell denotes a day without a record.
func (c Classification) Empty() bool {
	return c.Primary == ""
}

// Code returns the display code, "<primary> <secondary>" when both are set.
func (c Classification) Code() string {
	if c.Secondary == "" {
		return c.Primary
	}
	return c.Primary + " " + c.Secondary
}

// Classifier reads raw cell text into canonical codes. Numbers equal to the
// roster year or its neighbours are treated as dates, not shifts.
type Classifier struct {
	excluded map[string]bool
}

// NewClassifier returns a classifier for the given roster year. A zero year
// means the current one.
func NewClassifier(year int) *Classifier {
	year = ResolveYear(year)
	return &Classifier{
		excluded: map[string]bool{
			strconv.Itoa(year - 1): true,
			strconv.Itoa(year):     true,
			strconv.Itoa(year + 1): true,
		},
	}
}

// Classify applies the cell rules in priority order: garbage is dropped, a
// vacation marker always becomes the primary code, the first absence acronym
// is kept as secondary, and the first shift number is the primary otherwise.
// A second shift number ends the scan. Cells without a vacation marker or a
// shift number yield an empty classification.
func (c *Classifier) Classify(cell string) Classification {
	var (
		shift    string
		acronym  string
		vacation bool
	)

	for _, token := range strings.Fields(strings.ToUpper(cell)) {
		clean := nonCodeChar.ReplaceAllString(token, "")

		if vacationMarkers[clean] {
			vacation = true
			continue
		}
		if isGarbage(token, clean) {
			continue
		}
		if canonical, ok := absenceAcronyms[clean]; ok {
			if acronym == "" {
				acronym = canonical
			}
			continue
		}
		if c.isShiftNumber(token, clean) {
			if shift != "" {
				break
			}
			shift = clean
		}
	}

	switch {
	case vacation:
		return Classification{Primary: VacationCode, Secondary: acronym, Vacation: true}
	case shift != "":
		return Classification{Primary: shift, Secondary: acronym}
	default:
		return Classification{}
	}
}

func (c *Classifier) isShiftNumber(token, clean string) bool {
	// 08:00 is a time, not shift 0800
	if strings.Contains(token, ":") {
		return false
	}
	return shiftNumber.MatchString(clean) && !c.excluded[clean]
}

func isGarbage(token, clean string) bool {
	if garbageTokens[token] || garbageTokens[clean] {
		return true
	}
	if strings.ContainsAny(token, "[]") {
		return true
	}
	return clean == ""
}

// SplitCode separates a composite display code into its primary code and
// secondary acronym.
func SplitCode(code string) (primary, secondary string) {
	fields := strings.Fields(code)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

// IsAbsenceAcronym reports whether code is a recognised absence acronym.
func IsAbsenceAcronym(code string) bool {
	_, ok := absenceAcronyms[code]
	return ok
}

// ResolveYear defaults a missing year to the current calendar year.
func ResolveYear(year int) int {
	if year <= 0 {
		return time.Now().Year()
	}
	return year
}
