package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/a3tai/roster-audit/internal/settlement"
)

// csvLine is one priced day in the CSV export.
type csvLine struct {
	Date        string  `csv:"fecha"`
	Code        string  `csv:"codigo"`
	Start       string  `csv:"entrada"`
	End         string  `csv:"salida"`
	Hours       float64 `csv:"horas"`
	Nocturnal   float64 `csv:"horas_nocturnas"`
	Holiday     bool    `csv:"festivo"`
	Vacation    bool    `csv:"vacaciones"`
	DebtHours   float64 `csv:"deuda_horas"`
	RestMinutes int     `csv:"descanso_min"`
	Status      string  `csv:"estado"`
	Amount      string  `csv:"importe"`
}

// WriteCSV writes one row per priced day, in date order.
func WriteCSV(out io.Writer, s *settlement.Settlement) error {
	if s == nil {
		return fmt.Errorf("report: settlement is required")
	}

	rows := make([]*csvLine, 0)
	for _, m := range s.Months {
		for _, l := range m.Lines {
			rows = append(rows, &csvLine{
				Date:        l.Date.Format("2006-01-02"),
				Code:        l.Code,
				Start:       l.Start,
				End:         l.End,
				Hours:       l.Hours,
				Nocturnal:   l.Nocturnal,
				Holiday:     l.Holiday,
				Vacation:    l.Vacation,
				DebtHours:   l.DebtHours,
				RestMinutes: l.RestMinutes,
				Status:      l.Status,
				Amount:      l.Amount.StringFixed(2),
			})
		}
	}

	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
