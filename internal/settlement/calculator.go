package settlement

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/a3tai/roster-audit/internal/roster"
)

// ErrUnresolvedCodes is returned while the roster still has codes to review.
var ErrUnresolvedCodes = errors.New("roster has unresolved codes")

// Day statuses shown in the detail sheet.
const (
	StatusOrdinary = "Ordinario"
	StatusHoliday  = "Festivo"
	StatusVacation = "Vacaciones"
	StatusReview   = "Revisar"
	StatusAbsence  = "Absentismo"
)

// Line is one priced roster day.
type Line struct {
	Date        time.Time       `json:"date"`
	Code        string          `json:"code"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Hours       float64         `json:"hours"`
	Nocturnal   float64         `json:"nocturnal_hours"`
	DebtHours   float64         `json:"debt_hours"`
	RestMinutes int             `json:"rest_minutes"`
	Status      string          `json:"status"`
	Holiday     bool            `json:"holiday"`
	Vacation    bool            `json:"vacation"`
	Amount      decimal.Decimal `json:"amount"`
}

// Month groups the lines of one calendar month.
type Month struct {
	Month     time.Month      `json:"month"`
	Lines     []Line          `json:"lines"`
	DebtHours float64         `json:"debt_hours"`
	Amount    decimal.Decimal `json:"amount"`
}

// Settlement is the priced outcome of a reviewed roster.
type Settlement struct {
	Year            int                     `json:"year"`
	Pricing         Pricing                 `json:"pricing"`
	Rate            decimal.Decimal         `json:"hourly_rate"`
	DebtHours       float64                 `json:"debt_hours"`
	RestAmount      decimal.Decimal         `json:"rest_amount"`
	ExtraClaim      decimal.Decimal         `json:"extra_claim"`
	Total           decimal.Decimal         `json:"total"`
	NocturnalHours  float64                 `json:"nocturnal_hours"`
	NocturnalAlert  bool                    `json:"nocturnal_alert"`
	Months          []Month                 `json:"months"`
	VacationPeriods []roster.VacationPeriod `json:"vacation_periods"`
}

// RestDebt returns the compensatory rest owed for a shift of hours: fixed
// half, one or two hours around the 8, 12 and 24 hour shifts, one twelfth of
// the shift otherwise.
func RestDebt(hours float64) float64 {
	switch {
	case hours >= 7.5 && hours <= 8.5:
		return 0.5
	case hours >= 11.5 && hours <= 12.5:
		return 1
	case hours >= 23.5 && hours <= 24.5:
		return 2
	default:
		return math.Round(hours/12*100) / 100
	}
}

// Calculate prices every record of result. All codes must be resolved first.
func Calculate(result roster.Result, pricing Pricing) (*Settlement, error) {
	if pending := roster.Unresolved(result.Records, result.Legend); len(pending) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvedCodes, pending)
	}

	rate := pricing.Rate()
	s := &Settlement{
		Year:            result.Year,
		Pricing:         pricing,
		Rate:            rate,
		VacationPeriods: roster.VacationPeriods(result.Records),
	}

	var debt decimal.Decimal
	byMonth := make(map[time.Month]*Month)
	var order []time.Month

	for _, rec := range roster.SortRecords(result.Records) {
		line := priceDay(rec, result.Legend, result.Holidays, rate)

		m, ok := byMonth[rec.Date.Month()]
		if !ok {
			m = &Month{Month: rec.Date.Month()}
			byMonth[rec.Date.Month()] = m
			order = append(order, rec.Date.Month())
		}
		m.Lines = append(m.Lines, line)
		m.DebtHours = round2(m.DebtHours + line.DebtHours)
		m.Amount = m.Amount.Add(line.Amount)

		debt = debt.Add(decimal.NewFromFloat(line.DebtHours))
		s.NocturnalHours += line.Nocturnal
	}

	for _, month := range order {
		s.Months = append(s.Months, *byMonth[month])
	}

	s.DebtHours = debt.InexactFloat64()
	s.NocturnalHours = round2(s.NocturnalHours)
	s.RestAmount = debt.Mul(rate).Round(2)
	if pricing.ExtraPaymentIncluded {
		s.ExtraClaim = pricing.ExtraPaymentAmount.Round(2)
	}
	s.Total = s.RestAmount.Add(s.ExtraClaim)
	s.NocturnalAlert = s.NocturnalHours > 0 && pricing.AuditedNocturnal.IsZero()
	return s, nil
}

func priceDay(rec roster.DayRecord, legend roster.Legend, holidays roster.HolidaySet, rate decimal.Decimal) Line {
	entry, known := legend[rec.Code]

	line := Line{
		Date:      rec.Date,
		Code:      rec.Code,
		Start:     "-",
		End:       "-",
		Hours:     rec.HoursTotal,
		Nocturnal: rec.HoursNocturnal,
		Holiday:   rec.DayType == roster.DayHoliday || holidays.Contains(rec.Date),
		Vacation:  rec.IsVacation || entry.Kind == roster.KindVacation,
		Status:    StatusOrdinary,
	}
	if known && entry.HasSchedule() && !line.Vacation {
		line.Start = entry.Start
		line.End = entry.End
	}

	absent := line.Vacation || entry.Kind == roster.KindAbsence
	if !absent && rec.HoursTotal > 0 {
		line.DebtHours = RestDebt(rec.HoursTotal)
		line.RestMinutes = int(math.Round(line.DebtHours * 60))
		line.Amount = decimal.NewFromFloat(line.DebtHours).Mul(rate).Round(2)
	}

	switch {
	case line.Holiday:
		line.Status = StatusHoliday
	case line.Vacation:
		line.Status = StatusVacation
	case entry.Kind == roster.KindAbsence:
		line.Status = StatusAbsence
		if entry.Description != "" {
			line.Status = entry.Description
		}
	case !known || entry.Kind == roster.KindUnknown:
		line.Status = StatusReview
	}
	return line
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
