package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Action is how a reviewer resolves an unknown code.
type Action string

const (
	ActionWork    Action = "work"
	ActionAbsence Action = "absence"
	ActionDelete  Action = "delete"
)

var (
	ErrUnknownCode   = errors.New("code not present in roster")
	ErrInvalidAction = errors.New("invalid resolution action")
	ErrInvalidHours  = errors.New("invalid shift hours")
)

// Resolution is a reviewer's decision for one code. Work resolutions take
// their hours from Start and End when both are set, otherwise from Hours.
type Resolution struct {
	Code        string  `json:"code" mapstructure:"code"`
	Action      Action  `json:"action" mapstructure:"action"`
	Start       string  `json:"start,omitempty" mapstructure:"start"`
	End         string  `json:"end,omitempty" mapstructure:"end"`
	Hours       float64 `json:"hours,omitempty" mapstructure:"hours"`
	Description string  `json:"description,omitempty" mapstructure:"description"`
}

// Unresolved lists the codes used by records whose legend entry is missing or
// still Unknown. Vacation records never need review.
func Unresolved(records []DayRecord, legend Legend) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, r := range records {
		if r.IsVacation || seen[r.Code] {
			continue
		}
		entry, ok := legend[r.Code]
		if ok && entry.Kind != KindUnknown {
			continue
		}
		seen[r.Code] = true
		codes = append(codes, r.Code)
	}
	sort.Strings(codes)
	return codes
}

// Ready reports whether every record can be priced.
func Ready(records []DayRecord, legend Legend) bool {
	return len(Unresolved(records, legend)) == 0
}

// Resolve applies r to every record carrying r.Code and returns the updated
// records and legend. The inputs are not modified.
func Resolve(records []DayRecord, legend Legend, r Resolution) ([]DayRecord, Legend, error) {
	code := strings.TrimSpace(r.Code)
	if code == "" {
		return nil, nil, fmt.Errorf("%w: empty code", ErrUnknownCode)
	}

	used := false
	for _, rec := range records {
		if rec.Code == code {
			used = true
			break
		}
	}
	if _, ok := legend[code]; !ok && !used {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCode, code)
	}

	out := legend.Clone()

	switch r.Action {
	case ActionDelete:
		delete(out, code)
		kept := make([]DayRecord, 0, len(records))
		for _, rec := range records {
			if rec.Code != code {
				kept = append(kept, rec)
			}
		}
		return kept, out, nil

	case ActionAbsence:
		entry := LegendEntry{
			Code:        code,
			Kind:        KindAbsence,
			Description: describeResolution(r, out[code], "Ausencia"),
			Source:      SourceUser,
		}
		out[code] = entry
		return applyEntry(records, entry), out, nil

	case ActionWork:
		entry, err := workEntry(code, r, out[code])
		if err != nil {
			return nil, nil, err
		}
		out[code] = entry
		return applyEntry(records, entry), out, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidAction, r.Action)
	}
}

func workEntry(code string, r Resolution, existing LegendEntry) (LegendEntry, error) {
	entry := LegendEntry{
		Code:   code,
		Kind:   KindWork,
		Source: SourceUser,
	}

	if r.Start != "" || r.End != "" {
		start, okStart := NormalizeClock(r.Start)
		end, okEnd := NormalizeClock(r.End)
		if !okStart || !okEnd {
			return LegendEntry{}, fmt.Errorf("%w: %s-%s", ErrInvalidHours, r.Start, r.End)
		}
		hours, _ := ShiftHours(start, end)
		entry.Start = start
		entry.End = end
		entry.Hours = hours
		entry.NocturnalHours = NocturnalHours(start, end)
		entry.Description = describeResolution(r, existing, fmt.Sprintf("Turno %s-%s", start, end))
		return entry, nil
	}

	if r.Hours <= 0 || r.Hours > 24 {
		return LegendEntry{}, fmt.Errorf("%w: %v", ErrInvalidHours, r.Hours)
	}
	entry.Hours = round2(r.Hours)
	entry.Description = describeResolution(r, existing, fmt.Sprintf("Turno %s", code))
	return entry, nil
}

func describeResolution(r Resolution, existing LegendEntry, fallback string) string {
	if d := strings.TrimSpace(r.Description); d != "" {
		return d
	}
	if existing.Kind != KindUnknown && existing.Description != "" {
		return existing.Description
	}
	return fallback
}

func applyEntry(records []DayRecord, entry LegendEntry) []DayRecord {
	out := make([]DayRecord, len(records))
	copy(out, records)
	for i := range out {
		if out[i].Code != entry.Code || out[i].IsVacation {
			continue
		}
		out[i].HoursTotal = entry.Hours
		out[i].HoursNocturnal = entry.NocturnalHours
	}
	return out
}

// OverrideHours sets the hours of every record carrying code, without touching
// the legend. Nocturnal hours are capped at the new total.
func OverrideHours(records []DayRecord, code string, hours float64) ([]DayRecord, error) {
	if hours < 0 || hours > 24 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHours, hours)
	}
	out := make([]DayRecord, len(records))
	copy(out, records)
	found := false
	for i := range out {
		if out[i].Code != code {
			continue
		}
		found = true
		out[i].HoursTotal = round2(hours)
		if out[i].HoursNocturnal > out[i].HoursTotal {
			out[i].HoursNocturnal = out[i].HoursTotal
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCode, code)
	}
	return out, nil
}
