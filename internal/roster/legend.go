package roster

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultLegendWindow is the furthest, in characters, a time range may sit
// after its code and still be bound to it.
const DefaultLegendWindow = 350

const maxDescriptionLen = 60

var (
	legendCode  = regexp.MustCompile(`\b\d{3,4}\b`)
	legendRange = regexp.MustCompile(`(\d{1,2}[:.]\d{2})\s*[-–—]\s*(\d{1,2}[:.]\d{2})`)
	descTrim    = " \t\r\n-–—:=|.,;()"
)

// LegendInferencer builds code legends from a document's free text.
type LegendInferencer interface {
	Infer(text string) Legend
}

// ProximityInferencer binds every shift number to the nearest time range that
// follows it in the text. Roster legends interleave entries on the same line,
// the next line or after filler text, so nearest-following is a heuristic: a
// code with no range of its own may borrow the next code's range.
type ProximityInferencer struct {
	Window   int
	excluded map[string]bool
}

var _ LegendInferencer = (*ProximityInferencer)(nil)

// NewProximityInferencer returns an inferencer for the roster year. A window
// of zero or less uses DefaultLegendWindow.
func NewProximityInferencer(year, window int) *ProximityInferencer {
	if window <= 0 {
		window = DefaultLegendWindow
	}
	year = ResolveYear(year)
	return &ProximityInferencer{
		Window: window,
		excluded: map[string]bool{
			strconv.Itoa(year - 1): true,
			strconv.Itoa(year):     true,
			strconv.Itoa(year + 1): true,
		},
	}
}

// Infer returns the inferred bindings overlaid with the manual vocabulary.
// Manual entries win for their codes; precedence is manual, then inferred,
// then unresolved.
func (p *ProximityInferencer) Infer(text string) Legend {
	return ApplyManualVocabulary(p.bind(text))
}

func (p *ProximityInferencer) bind(text string) Legend {
	legend := make(Legend)
	codes := legendCode.FindAllStringIndex(text, -1)
	ranges := legendRange.FindAllStringSubmatchIndex(text, -1)

	for _, cm := range codes {
		code := text[cm[0]:cm[1]]
		if p.excluded[code] {
			continue
		}
		if _, done := legend[code]; done {
			continue
		}

		rm := nearestRange(ranges, cm[1], p.Window)
		if rm == nil {
			continue
		}

		start, okStart := NormalizeClock(text[rm[2]:rm[3]])
		end, okEnd := NormalizeClock(text[rm[4]:rm[5]])
		if !okStart || !okEnd {
			// leave the code open for a later occurrence
			continue
		}
		hours, _ := ShiftHours(start, end)

		legend[code] = LegendEntry{
			Code:           code,
			Kind:           KindWork,
			Start:          start,
			End:            end,
			Hours:          hours,
			NocturnalHours: NocturnalHours(start, end),
			Description:    describe(text[cm[1]:rm[0]], start, end),
			Source:         SourceInferred,
		}
	}
	return legend
}

// nearestRange returns the first range starting after pos within window
// characters. Ranges are ordered by position.
func nearestRange(ranges [][]int, pos, window int) []int {
	for _, rm := range ranges {
		if rm[0] <= pos {
			continue
		}
		if rm[0]-pos > window {
			return nil
		}
		return rm
	}
	return nil
}

func describe(filler, start, end string) string {
	desc := strings.Trim(strings.Join(strings.Fields(filler), " "), descTrim)
	if desc == "" || len(desc) > maxDescriptionLen {
		return fmt.Sprintf("Turno %s-%s", start, end)
	}
	return desc
}

var manualVocabulary = Legend{
	"V":     {Kind: KindVacation, Description: "Vacaciones"},
	"VAC":   {Kind: KindVacation, Description: "Vacaciones"},
	"ENF":   {Kind: KindAbsence, Description: "Baja / Enfermedad"},
	"BAJA":  {Kind: KindAbsence, Description: "Baja IT"},
	"IT":    {Kind: KindAbsence, Description: "Incapacidad Temporal"},
	"ALTA":  {Kind: KindAbsence, Description: "Alta médica"},
	"MTRI":  {Kind: KindAbsence, Description: "Permiso Matrimonio"},
	"MTRL":  {Kind: KindAbsence, Description: "Permiso Matrimonio"},
	"DLD":   {Kind: KindAbsence, Description: "Día Libre Disposición"},
	"AP":    {Kind: KindAbsence, Description: "Asuntos Propios"},
	"PATER": {Kind: KindAbsence, Description: "Permiso Paternidad"},
	"MATER": {Kind: KindAbsence, Description: "Permiso Maternidad"},
	"LIBRE": {Kind: KindAbsence, Description: "Libre"},
	"L":     {Kind: KindAbsence, Description: "Libre"},
	"D":     {Kind: KindAbsence, Description: "Descanso"},
	"NORM":  {Kind: KindWork, Description: "Turno Normal"},
	"[+]":   {Kind: KindUnknown, Description: "Dato oculto (ver PDF)"},
	"[]":    {Kind: KindUnknown, Description: "Error de lectura"},
}

// ManualEntry returns the fixed definition for code, if there is one.
func ManualEntry(code string) (LegendEntry, bool) {
	entry, ok := manualVocabulary[code]
	if !ok {
		return LegendEntry{}, false
	}
	entry.Code = code
	entry.Source = SourceManual
	return entry, true
}

// ApplyManualVocabulary returns legend with every manual definition forced in.
// Times already detected for a manual code are kept.
func ApplyManualVocabulary(legend Legend) Legend {
	out := legend.Clone()
	for code := range manualVocabulary {
		entry, _ := ManualEntry(code)
		if existing, ok := out[code]; ok {
			entry.Start = existing.Start
			entry.End = existing.End
			entry.Hours = existing.Hours
			entry.NocturnalHours = existing.NocturnalHours
		}
		out[code] = entry
	}
	return out
}
