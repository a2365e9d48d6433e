package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/a3tai/roster-audit/internal/settlement"
)

// Summary renders the settlement totals as plain text, one figure per line.
func Summary(in Input) string {
	s := in.Settlement
	if s == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Auditoría %d\n", s.Year)
	fmt.Fprintf(&b, "Trabajador: %s\n", orUnknown(in.Identity.Worker))
	fmt.Fprintf(&b, "Empresa: %s\n", orUnknown(in.Identity.Company))
	fmt.Fprintf(&b, "Precio hora: %s\n", FormatRate(s.Rate))
	fmt.Fprintf(&b, "Horas de descanso no disfrutadas: %.2f h\n", s.DebtHours)
	fmt.Fprintf(&b, "Importe descansos: %s\n", FormatAmount(s.RestAmount))
	fmt.Fprintf(&b, "Reclamación 3ª paga: %s\n", FormatAmount(s.ExtraClaim))
	fmt.Fprintf(&b, "TOTAL: %s\n", FormatAmount(s.Total))

	for _, m := range s.Months {
		if m.DebtHours == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-10s %6.2f h  %s\n", monthNames[m.Month], m.DebtHours, FormatAmount(m.Amount))
	}

	counts := statusCounts(s)
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Fprintf(&b, "Días %s: %d\n", status, counts[status])
	}

	for _, vp := range s.VacationPeriods {
		fmt.Fprintf(&b, "Vacaciones: %s - %s (%d días)\n", vp.Start.Format(dateLayout), vp.End.Format(dateLayout), vp.Days())
	}
	if s.NocturnalAlert {
		fmt.Fprintf(&b, "ALERTA: %.2f h nocturnas sin nocturnidad en nómina\n", s.NocturnalHours)
	}
	return b.String()
}

// statusCounts tallies priced days per status.
func statusCounts(s *settlement.Settlement) map[string]int {
	counts := make(map[string]int)
	for _, m := range s.Months {
		for _, l := range m.Lines {
			counts[l.Status]++
		}
	}
	return counts
}
