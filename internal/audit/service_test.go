package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/roster-audit/internal/pdf"
	pdferrors "github.com/a3tai/roster-audit/internal/pdf/errors"
	"github.com/a3tai/roster-audit/internal/pdf/extraction"
	"github.com/a3tai/roster-audit/internal/roster"
	"github.com/a3tai/roster-audit/internal/settlement"
)

const rosterText = `CUADRANTE ANUAL 2025
LEYENDA
708 Mañana 08:00-15:00
1308 Noche 22:00-08:00
FESTIVOS: 06/01/2025`

const payslipText = `AMBULANCIAS DEL NORTE S.L.
RECIBO INDIVIDUAL DE SALARIOS  MARZO 2025
SALARIO BASE                                 1.200,00
ANTIGÜEDAD                                      45,50
PLUS CONVENIO                                  120,00
PLUS NOCTURNIDAD                                30,00
TOTAL DEVENGADO                              1.395,50`

type fakeReader map[string]*pdf.Document

func (f fakeReader) ReadDocument(path string) (*pdf.Document, error) {
	doc, ok := f[path]
	if !ok {
		return nil, pdferrors.Newf(pdferrors.ErrorTypeNotFound, path, "no such document")
	}
	return doc, nil
}

func januaryRow(cells map[int]string) []string {
	row := make([]string, 32)
	row[0] = "ENERO"
	for day, text := range cells {
		row[day] = text
	}
	return row
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	docs := fakeReader{
		"cuadrante.pdf": {
			Text: rosterText,
			Tables: []extraction.Table{extraction.NewTable(1,
				januaryRow(map[int]string{2: "708", 6: "1308", 9: "555"}),
			)},
		},
		"marzo.pdf": {Text: payslipText},
	}
	logger, _ := test.NewNullLogger()
	opts := Options{Roster: roster.DefaultOptions()}
	opts.Roster.Year = 2025
	return NewService(docs, opts, logger)
}

func TestService_ParseRoster(t *testing.T) {
	s := newTestService(t)

	result := s.ParseRoster("cuadrante.pdf", 0)
	assert.Equal(t, 2025, result.Year)
	assert.Len(t, result.Records, 3)
	assert.Equal(t, []string{"555"}, roster.Unresolved(result.Records, result.Legend))
}

func TestService_ParseRoster_ExtractionFailure(t *testing.T) {
	s := newTestService(t)

	result := s.ParseRoster("missing.pdf", 2024)
	assert.Equal(t, 2024, result.Year)
	assert.Empty(t, result.Records)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0], "missing.pdf")
}

func TestService_AuditPayroll(t *testing.T) {
	s := newTestService(t)

	agg, err := s.AuditPayroll(context.Background(), []string{"marzo.pdf", "abril.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 2, agg.Documents)
	assert.Len(t, agg.Diagnostics, 1)
	assert.True(t, agg.BaseSalary.Equal(decimal.RequireFromString("1200")))
	assert.Equal(t, "AMBULANCIAS DEL NORTE S.L.", agg.Company)
}

func TestService_Run_PendingCodes(t *testing.T) {
	s := newTestService(t)

	out, err := s.Run(context.Background(), Request{Roster: "cuadrante.pdf"})
	require.ErrorIs(t, err, settlement.ErrUnresolvedCodes)
	require.NotNil(t, out)
	assert.Equal(t, []string{"555"}, out.Pending)
	assert.Nil(t, out.Settlement)
}

func TestService_Run(t *testing.T) {
	s := newTestService(t)
	dir := t.TempDir()

	out, err := s.Run(context.Background(), Request{
		Roster:      "cuadrante.pdf",
		Payslips:    []string{"marzo.pdf"},
		Resolutions: []roster.Resolution{{Code: "555", Action: roster.ActionDelete}},
		Pricing:     map[string]any{"hourly_rate": 10},
		Workbook:    filepath.Join(dir, "informe.xlsx"),
		CSV:         filepath.Join(dir, "dias.csv"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Settlement)

	st := out.Settlement
	assert.Empty(t, out.Pending)
	assert.Len(t, out.Roster.Records, 2)
	assert.True(t, st.Rate.Equal(decimal.NewFromInt(10)))
	// 7h shift owes 0.58h, the 10h night shift 0.83h
	assert.InDelta(t, 1.41, st.DebtHours, 0.001)
	assert.Equal(t, "14.10", st.RestAmount.StringFixed(2))
	assert.Equal(t, "1365.50", st.ExtraClaim.StringFixed(2))
	assert.Equal(t, "1379.60", st.Total.StringFixed(2))
	assert.False(t, st.NocturnalAlert)

	for _, path := range []string{out.Workbook, out.CSV} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestService_Run_RequiresRoster(t *testing.T) {
	s := newTestService(t)

	_, err := s.Run(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNoRoster)
}

func TestService_Run_BadResolution(t *testing.T) {
	s := newTestService(t)

	_, err := s.Run(context.Background(), Request{
		Roster:      "cuadrante.pdf",
		Resolutions: []roster.Resolution{{Code: "999", Action: roster.ActionDelete}},
	})
	assert.ErrorIs(t, err, roster.ErrUnknownCode)
}

func TestService_Run_UnreadableRoster(t *testing.T) {
	s := newTestService(t)
	dir := t.TempDir()
	workbook := filepath.Join(dir, "informe.xlsx")
	csvPath := filepath.Join(dir, "dias.csv")

	out, err := s.Run(context.Background(), Request{
		Roster:   "missing.pdf",
		Payslips: []string{"marzo.pdf"},
		Pricing:  map[string]any{"hourly_rate": 10},
		Workbook: workbook,
		CSV:      csvPath,
	})
	require.ErrorIs(t, err, ErrRosterUnreadable)
	require.NotNil(t, out)
	assert.Nil(t, out.Settlement)
	assert.Empty(t, out.Workbook)
	require.Len(t, out.Diagnostics, 1)
	assert.Contains(t, out.Diagnostics[0], "missing.pdf")

	for _, path := range []string{workbook, csvPath} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), path)
	}
}
