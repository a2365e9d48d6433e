// Package report renders a settlement as a spreadsheet, a CSV export and a
// plain-text summary.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/roster-audit/internal/payroll"
	"github.com/a3tai/roster-audit/internal/settlement"
)

// Sheet names.
const (
	SummarySheet = "RESUMEN EJECUTIVO"
	DetailSheet  = "DETALLE MENSUAL"
)

// DetailHeaders are the column titles of every month block.
var DetailHeaders = []string{
	"FECHA", "ENTRADA", "SALIDA", "CÓDIGO", "HORAS", "DEUDA (H)", "TIEMPO DESCANSO", "ESTADO", "IMPORTE (€)",
}

var monthNames = [...]string{
	"", "ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

const (
	euroFormat = `#,##0.00 "€"`
	rateFormat = `#,##0.0000 "€"`
	dateLayout = "02/01/2006"
)

// Input is everything a report shows.
type Input struct {
	Settlement *settlement.Settlement
	Identity   payroll.Identity
	Generated  time.Time
}

type styles struct {
	title, subtitle, label, money, rate, total, header, month, cell, debt, holiday, vacation int
}

func newStyles(f *excelize.File) (styles, error) {
	euro, rate := euroFormat, rateFormat
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	solid := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}

	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 14}, Alignment: center},
		{Font: &excelize.Font{Bold: true, Size: 12}, Alignment: center, Border: thin},
		{Font: &excelize.Font{Bold: true}},
		{Font: &excelize.Font{Bold: true}, CustomNumFmt: &euro},
		{Font: &excelize.Font{Bold: true, Size: 12, Color: "0000FF"}, Alignment: center, CustomNumFmt: &rate},
		{Font: &excelize.Font{Bold: true, Size: 12, Color: "FF0000"}, Fill: solid("FFFF00"), Border: thin, CustomNumFmt: &euro},
		{Font: &excelize.Font{Bold: true, Color: "FFFFFF"}, Fill: solid("4F81BD"), Alignment: center, Border: thin},
		{Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"}, Fill: solid("1F497D"), Alignment: center},
		{Alignment: center, Border: thin},
		{Font: &excelize.Font{Color: "9C0006"}, Fill: solid("FFC7CE"), Alignment: center, Border: thin},
		{Font: &excelize.Font{Color: "006100"}, Fill: solid("C6EFCE"), Alignment: center, Border: thin},
		{Font: &excelize.Font{Bold: true, Color: "000000"}, Fill: solid("FFFF00"), Alignment: center, Border: thin},
	}

	var s styles
	targets := []*int{&s.title, &s.subtitle, &s.label, &s.money, &s.rate, &s.total, &s.header, &s.month, &s.cell, &s.debt, &s.holiday, &s.vacation}
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return styles{}, fmt.Errorf("failed to create style: %w", err)
		}
		*targets[i] = id
	}
	return s, nil
}

// sheetWriter collects the first error of a sequence of cell writes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) value(cell string, v any) {
	if w.err == nil {
		w.err = w.f.SetCellValue(w.sheet, cell, v)
	}
}

func (w *sheetWriter) style(from, to string, id int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, from, to, id)
	}
}

func (w *sheetWriter) merge(from, to string) {
	if w.err == nil {
		w.err = w.f.MergeCell(w.sheet, from, to)
	}
}

func (w *sheetWriter) at(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil && w.err == nil {
		w.err = err
	}
	return name
}

// BuildWorkbook lays out the summary and monthly detail sheets.
func BuildWorkbook(in Input) (*excelize.File, error) {
	if in.Settlement == nil {
		return nil, fmt.Errorf("report: settlement is required")
	}
	if in.Generated.IsZero() {
		in.Generated = time.Now()
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := writeSummary(f, st, in); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}
	if err := writeDetail(f, st, in.Settlement); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write detail: %w", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

func orUnknown(s string) string {
	if s == "" {
		return payroll.Unknown
	}
	return s
}

func writeSummary(f *excelize.File, st styles, in Input) error {
	s := in.Settlement
	p := s.Pricing
	w := &sheetWriter{f: f, sheet: SummarySheet}

	w.merge("B2", "E2")
	w.value("B2", "INFORME TÉCNICO - AUDITORÍA & RECLAMACIÓN")
	w.style("B2", "E2", st.title)

	category := p.Category
	if category == "" {
		category = in.Identity.Category
	}
	identity := [][2]string{
		{"TRABAJADOR:", orUnknown(in.Identity.Worker)},
		{"CATEGORÍA PROF:", orUnknown(category)},
		{"EMPRESA:", orUnknown(in.Identity.Company)},
		{"FECHA INFORME:", in.Generated.Format(dateLayout)},
	}
	for i, kv := range identity {
		row := 4 + i
		w.value(w.at(2, row), kv[0])
		w.style(w.at(2, row), w.at(2, row), st.label)
		w.value(w.at(3, row), kv[1])
	}

	w.merge("B9", "E9")
	w.value("B9", "CÁLCULO DEL PRECIO HORA ORDINARIA")
	w.style("B9", "E9", st.subtitle)

	w.merge("B11", "E11")
	w.value("B11", fmt.Sprintf("(%s + %s + %s) x 15", p.BaseSalary.StringFixed(2), p.Seniority.StringFixed(2), p.PlusAgreement.StringFixed(2)))
	w.style("B11", "E11", st.subtitle)
	w.merge("B12", "E12")
	w.value("B12", "--------------------------------------------------")
	w.merge("B13", "E13")
	w.value("B13", "1776")
	w.style("B13", "E13", st.subtitle)

	w.merge("B15", "C15")
	w.value("B15", "PRECIO HORA:")
	w.style("B15", "C15", st.label)
	w.merge("D15", "E15")
	w.value("D15", s.Rate.InexactFloat64())
	w.style("D15", "E15", st.rate)

	w.merge("B18", "E18")
	w.value("B18", "RESUMEN DE CANTIDADES A RECLAMAR")
	w.style("B18", "E18", st.subtitle)

	row := 20
	w.merge(w.at(2, row), w.at(3, row))
	w.value(w.at(2, row), "Total Horas de Descanso No Disfrutadas:")
	w.merge(w.at(4, row), w.at(5, row))
	w.value(w.at(4, row), fmt.Sprintf("%.2f h", s.DebtHours))
	w.style(w.at(4, row), w.at(5, row), st.label)
	row++

	for _, kv := range []struct {
		label  string
		amount float64
	}{
		{"Importe Reclamación Descansos:", s.RestAmount.InexactFloat64()},
		{"Reclamación 3ª Paga Extra:", s.ExtraClaim.InexactFloat64()},
	} {
		w.merge(w.at(2, row), w.at(3, row))
		w.value(w.at(2, row), kv.label)
		w.merge(w.at(4, row), w.at(5, row))
		w.value(w.at(4, row), kv.amount)
		w.style(w.at(4, row), w.at(5, row), st.money)
		row++
	}

	row++
	w.merge(w.at(2, row), w.at(3, row))
	w.value(w.at(2, row), "TOTAL FINAL A RECLAMAR")
	w.style(w.at(2, row), w.at(3, row), st.total)
	w.merge(w.at(4, row), w.at(5, row))
	w.value(w.at(4, row), s.Total.InexactFloat64())
	w.style(w.at(4, row), w.at(5, row), st.total)
	row += 2

	if s.NocturnalAlert {
		w.merge(w.at(2, row), w.at(5, row))
		w.value(w.at(2, row), fmt.Sprintf("ALERTA: %.2f h nocturnas en cuadrante y 0 € de nocturnidad en nómina", s.NocturnalHours))
		w.style(w.at(2, row), w.at(5, row), st.debt)
		row += 2
	}

	if len(s.VacationPeriods) > 0 {
		w.value(w.at(2, row), "PERIODOS DE VACACIONES")
		w.style(w.at(2, row), w.at(2, row), st.label)
		row++
		for _, vp := range s.VacationPeriods {
			w.value(w.at(2, row), vp.Start.Format(dateLayout))
			w.value(w.at(3, row), vp.End.Format(dateLayout))
			w.value(w.at(4, row), fmt.Sprintf("%d días", vp.Days()))
			row++
		}
	}

	if w.err != nil {
		return w.err
	}
	if err := f.SetColWidth(SummarySheet, "B", "C", 24); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "D", "E", 16)
}

func writeDetail(f *excelize.File, st styles, s *settlement.Settlement) error {
	w := &sheetWriter{f: f, sheet: DetailSheet}
	last := len(DetailHeaders)
	row := 1

	for _, m := range s.Months {
		w.merge(w.at(1, row), w.at(last, row))
		w.value(w.at(1, row), "MES: "+monthNames[m.Month])
		w.style(w.at(1, row), w.at(last, row), st.month)
		row++

		for i, h := range DetailHeaders {
			w.value(w.at(i+1, row), h)
		}
		w.style(w.at(1, row), w.at(last, row), st.header)
		row++

		for _, line := range m.Lines {
			rest := "-"
			if line.DebtHours > 0 {
				rest = fmt.Sprintf("%d min", line.RestMinutes)
			}
			values := []any{
				line.Date.Format(dateLayout), line.Start, line.End, line.Code,
				line.Hours, line.DebtHours, rest, line.Status, line.Amount.InexactFloat64(),
			}
			for i, v := range values {
				w.value(w.at(i+1, row), v)
			}
			w.style(w.at(1, row), w.at(last, row), st.cell)
			w.style(w.at(last, row), w.at(last, row), st.money)

			if line.DebtHours > 0 {
				w.style(w.at(6, row), w.at(7, row), st.debt)
			}
			switch line.Status {
			case settlement.StatusHoliday:
				w.style(w.at(1, row), w.at(1, row), st.holiday)
				w.style(w.at(8, row), w.at(8, row), st.holiday)
			case settlement.StatusVacation:
				for _, col := range []int{1, 4, 8} {
					w.style(w.at(col, row), w.at(col, row), st.vacation)
				}
			}
			row++
		}
		row += 2
	}

	if w.err != nil {
		return w.err
	}
	widths := []float64{12, 12, 12, 10, 10, 12, 15, 20, 15}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(DetailSheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// WriteWorkbook builds the workbook and writes it as xlsx to out.
func WriteWorkbook(out io.Writer, in Input) error {
	f, err := BuildWorkbook(in)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook builds the workbook and saves it to path.
func SaveWorkbook(path string, in Input) error {
	f, err := BuildWorkbook(in)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
